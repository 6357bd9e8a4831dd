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
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/presenters"
	"github.com/pkg/errors"
)

// NewBooks creates a new Books controller
func NewBooks(app *app.App) *Books {
	return &Books{
		app: app,
	}
}

// Books is a book controller
type Books struct {
	app *app.App
}

// currentUser returns the signed in user. Auth guarantees it is present on
// authenticated routes.
func currentUser(r *http.Request) (database.User, error) {
	user := context.User(r.Context())
	if user == nil {
		return database.User{}, app.ErrLoginRequired
	}

	return *user, nil
}

// Index responds with all books of the user
func (b *Books) Index(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	books, err := b.app.GetBooks(user)
	if err != nil {
		handleJSONError(w, err, "getting books")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBooks(books))
}

// CurrentlyReading responds with the unfinished books the user has started
func (b *Books) CurrentlyReading(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	books, err := b.app.GetCurrentlyReadingBooks(user)
	if err != nil {
		handleJSONError(w, err, "getting currently reading books")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBooks(books))
}

// Create creates a book
func (b *Books) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	var params app.BookParams
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	book, err := b.app.CreateBook(user, params)
	if err != nil {
		handleJSONError(w, err, "creating book")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentBook(book))
}

// Show responds with a book
func (b *Books) Show(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	book, err := b.app.GetBook(user, mux.Vars(r)["bookUUID"])
	if err != nil {
		handleJSONError(w, err, "getting book")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBook(book))
}

// Update partially updates a book
func (b *Books) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	var params app.BookParams
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	book, err := b.app.UpdateBook(user, mux.Vars(r)["bookUUID"], params)
	if err != nil {
		handleJSONError(w, err, "updating book")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBook(book))
}

// Delete deletes a book along with its reading sessions. The body is true
// if the book was deleted.
func (b *Books) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	ok, err := b.app.DeleteBook(user, mux.Vars(r)["bookUUID"])
	if err != nil {
		handleJSONError(w, err, "deleting book")
		return
	}

	statusCode := http.StatusOK
	if !ok {
		statusCode = http.StatusNotFound
	}

	respondJSON(w, statusCode, ok)
}

// Progress responds with the reading progress of a book
func (b *Books) Progress(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	book, err := b.app.GetBook(user, mux.Vars(r)["bookUUID"])
	if err != nil {
		handleJSONError(w, err, "getting book")
		return
	}

	sessions, err := b.app.GetBookReadingSessions(user, book.UUID)
	if err != nil {
		handleJSONError(w, errors.Wrap(err, "getting sessions"), "computing progress")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentProgress(book, sessions, b.app.Clock.Now()))
}
