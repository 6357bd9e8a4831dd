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

	"github.com/gorilla/mux"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/context"
	"github.com/pagemark/pagemark/pkg/server/presenters"
)

// NewAccounts creates a new Accounts controller
func NewAccounts(app *app.App) *Accounts {
	return &Accounts{
		app: app,
	}
}

// Accounts is a controller for the login sessions of the signed in user
type Accounts struct {
	app *app.App
}

// Sessions lists the login sessions of the user
func (a *Accounts) Sessions(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	sessions, err := a.app.GetUserSessions(user.ID)
	if err != nil {
		handleJSONError(w, err, "getting sessions")
		return
	}

	var currentKey string
	if s := context.Session(r.Context()); s != nil {
		currentKey = s.Key
	}

	respondJSON(w, http.StatusOK, presenters.PresentSessions(sessions, currentKey))
}

// RevokeSession signs out one of the user's login sessions
func (a *Accounts) RevokeSession(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	ok, err := a.app.DeleteUserSession(user.ID, mux.Vars(r)["sessionUUID"])
	if err != nil {
		handleJSONError(w, err, "revoking session")
		return
	}
	if !ok {
		handleJSONError(w, app.ErrNotFound, "revoking session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
