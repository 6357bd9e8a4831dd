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

package controllers

import (
	"net/http"

	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/presenters"
)

// NewAdmin creates a new Admin controller
func NewAdmin(app *app.App) *Admin {
	return &Admin{
		app: app,
	}
}

// Admin is a controller for the admin endpoints
type Admin struct {
	app *app.App
}

// Users lists all users with the size of their library
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := a.app.GetUsersWithStats()
	if err != nil {
		handleJSONError(w, err, "getting users")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentAdminUsers(users))
}
