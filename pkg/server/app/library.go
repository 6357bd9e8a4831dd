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

package app

import (
	"context"

	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pkg/errors"
)

// Library is a view of the App scoped to the books and reading sessions of
// a single user. Every call runs with the given context.
type Library struct {
	app  *App
	user database.User
}

// Library returns the library of the given user
func (a *App) Library(user database.User) *Library {
	return &Library{app: a, user: user}
}

// User returns the owner of the library
func (l *Library) User() database.User {
	return l.user
}

func (l *Library) with(ctx context.Context) *App {
	a := *l.app
	a.DB = l.app.DB.WithContext(ctx)

	return &a
}

// FindBookByTitleAndAuthor returns the book matching the title and author case-insensitively
func (l *Library) FindBookByTitleAndAuthor(ctx context.Context, title, author string) (database.Book, error) {
	return l.with(ctx).GetBookByTitleAndAuthor(l.user, title, author)
}

// BookTitles returns the titles of every book in the library
func (l *Library) BookTitles(ctx context.Context) ([]string, error) {
	return l.with(ctx).GetBookTitles(l.user)
}

// GetBook returns the book of the given uuid
func (l *Library) GetBook(ctx context.Context, uuid string) (database.Book, error) {
	return l.with(ctx).GetBook(l.user, uuid)
}

// SetStartingPage sets the starting page of a book
func (l *Library) SetStartingPage(ctx context.Context, bookUUID string, page int) error {
	return l.with(ctx).SetBookStartingPage(l.user, bookUUID, page)
}

// MarkFinished marks a book finished
func (l *Library) MarkFinished(ctx context.Context, bookUUID string) error {
	return l.with(ctx).MarkBookFinished(l.user, bookUUID)
}

// CreateBooks inserts the books in a single transaction
func (l *Library) CreateBooks(ctx context.Context, books []database.Book) ([]database.Book, error) {
	return l.with(ctx).CreateBooks(l.user, books)
}

// CreateReadingSession inserts a reading session with a fresh identity
func (l *Library) CreateReadingSession(ctx context.Context, s database.ReadingSession) (database.ReadingSession, error) {
	userID := l.user.ID
	s.ID = 0
	s.UUID = ""
	s.UserID = &userID

	if err := l.with(ctx).DB.Create(&s).Error; err != nil {
		return database.ReadingSession{}, errors.Wrap(err, "inserting reading session")
	}

	return s, nil
}
