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

package database

const (
	// RoleUser is the default role of a user
	RoleUser = "user"
	// RoleAdmin is a role granting access to the admin endpoints
	RoleAdmin = "admin"
)

const (
	// AuthorSexMale is an author-sex category
	AuthorSexMale = "M"
	// AuthorSexFemale is an author-sex category
	AuthorSexFemale = "F"
	// AuthorSexOther is an author-sex category
	AuthorSexOther = "Other"
	// AuthorSexUnknown is the fallback author-sex category
	AuthorSexUnknown = "Unknown"
)

// AuthorSexes lists the allowed author-sex categories
var AuthorSexes = []string{AuthorSexMale, AuthorSexFemale, AuthorSexOther, AuthorSexUnknown}
