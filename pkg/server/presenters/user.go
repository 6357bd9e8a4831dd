/* Copyright 2025 Pagemark Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package presenters

import (
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/database"
)

// User is the public view of a user
type User struct {
	UUID  string `json:"uuid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// PresentUser presents a user
func PresentUser(u database.User) User {
	return User{
		UUID:  u.UUID,
		Email: u.Email.String,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// AdminUser is a user as listed to admins
type AdminUser struct {
	User
	BookCount           int64 `json:"book_count"`
	ReadingSessionCount int64 `json:"reading_session_count"`
	GitHubLinked        bool  `json:"github_linked"`
}

// PresentAdminUsers presents users with their library size
func PresentAdminUsers(users []app.UserStats) []AdminUser {
	ret := []AdminUser{}

	for _, u := range users {
		ret = append(ret, AdminUser{
			User:                PresentUser(u.User),
			BookCount:           u.BookCount,
			ReadingSessionCount: u.ReadingSessionCount,
			GitHubLinked:        u.GitHubID != nil,
		})
	}

	return ret
}
