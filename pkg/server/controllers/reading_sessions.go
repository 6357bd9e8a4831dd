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
	"github.com/pagemark/pagemark/pkg/server/presenters"
)

// NewReadingSessions creates a new ReadingSessions controller
func NewReadingSessions(app *app.App) *ReadingSessions {
	return &ReadingSessions{
		app: app,
	}
}

// ReadingSessions is a reading session controller
type ReadingSessions struct {
	app *app.App
}

// Index responds with all reading sessions of the user, latest first
func (rs *ReadingSessions) Index(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	sessions, err := rs.app.GetReadingSessions(user)
	if err != nil {
		handleJSONError(w, err, "getting reading sessions")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReadingSessions(sessions))
}

// ByBook responds with the reading sessions of a book, earliest first
func (rs *ReadingSessions) ByBook(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	book, err := rs.app.GetBook(user, mux.Vars(r)["bookUUID"])
	if err != nil {
		handleJSONError(w, err, "getting book")
		return
	}

	sessions, err := rs.app.GetBookReadingSessions(user, book.UUID)
	if err != nil {
		handleJSONError(w, err, "getting reading sessions")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReadingSessions(sessions))
}

// Create creates a reading session
func (rs *ReadingSessions) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	var params app.ReadingSessionParams
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	s, err := rs.app.CreateReadingSession(user, params)
	if err != nil {
		handleJSONError(w, err, "creating reading session")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentReadingSession(s))
}

// Show responds with a reading session
func (rs *ReadingSessions) Show(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	s, err := rs.app.GetReadingSession(user, mux.Vars(r)["sessionUUID"])
	if err != nil {
		handleJSONError(w, err, "getting reading session")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReadingSession(s))
}

// Update partially updates a reading session
func (rs *ReadingSessions) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	var params app.ReadingSessionParams
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	s, err := rs.app.UpdateReadingSession(user, mux.Vars(r)["sessionUUID"], params)
	if err != nil {
		handleJSONError(w, err, "updating reading session")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReadingSession(s))
}

// Delete deletes a reading session. The body is true if it was deleted.
func (rs *ReadingSessions) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	ok, err := rs.app.DeleteReadingSession(user, mux.Vars(r)["sessionUUID"])
	if err != nil {
		handleJSONError(w, err, "deleting reading session")
		return
	}

	statusCode := http.StatusOK
	if !ok {
		statusCode = http.StatusNotFound
	}

	respondJSON(w, statusCode, ok)
}
