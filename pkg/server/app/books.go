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
	"errors"
	"strings"
	"time"

	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/helpers"
	"github.com/pagemark/pagemark/pkg/server/validate"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// BookParams holds the writable fields of a book. Nil fields are left
// unchanged by UpdateBook and take their zero value in CreateBook.
type BookParams struct {
	Title         *string    `json:"title" validate:"omitempty,min=1"`
	Author        *string    `json:"author" validate:"omitempty,min=1"`
	Format        *string    `json:"format"`
	PageCount     *int       `json:"page_count" validate:"omitempty,min=0"`
	ISBN          *string    `json:"isbn"`
	AuthorSex     *string    `json:"author_sex" validate:"omitempty,oneof=M F Other Unknown"`
	Recommended   *bool      `json:"recommended"`
	Genre         *string    `json:"genre"`
	PublishedYear *int       `json:"published_year" validate:"omitempty,min=0"`
	Publisher     *string    `json:"publisher"`
	DateAcquired  *time.Time `json:"date_acquired"`
	DateRemoved   *time.Time `json:"date_removed"`
	Cost          *float64   `json:"cost" validate:"omitempty,min=0"`
	StartingPage  *int       `json:"starting_page" validate:"omitempty,min=0"`
	Finished      *bool      `json:"finished"`
}

// updates returns the columns to update for the non-nil fields
func (p BookParams) updates() map[string]interface{} {
	ret := map[string]interface{}{}

	if p.Title != nil {
		ret["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		ret["author"] = strings.TrimSpace(*p.Author)
	}
	if p.Format != nil {
		ret["format"] = *p.Format
	}
	if p.PageCount != nil {
		ret["page_count"] = *p.PageCount
	}
	if p.ISBN != nil {
		ret["isbn"] = *p.ISBN
	}
	if p.AuthorSex != nil {
		ret["author_sex"] = *p.AuthorSex
	}
	if p.Recommended != nil {
		ret["recommended"] = *p.Recommended
	}
	if p.Genre != nil {
		ret["genre"] = *p.Genre
	}
	if p.PublishedYear != nil {
		ret["published_year"] = *p.PublishedYear
	}
	if p.Publisher != nil {
		ret["publisher"] = *p.Publisher
	}
	if p.DateAcquired != nil {
		ret["date_acquired"] = p.DateAcquired.UTC()
	}
	if p.DateRemoved != nil {
		ret["date_removed"] = p.DateRemoved.UTC()
	}
	if p.Cost != nil {
		ret["cost"] = *p.Cost
	}
	if p.StartingPage != nil {
		ret["starting_page"] = *p.StartingPage
	}
	if p.Finished != nil {
		ret["finished"] = *p.Finished
	}

	return ret
}

func (a *App) userBooks(user database.User) *gorm.DB {
	return a.DB.Model(&database.Book{}).Where("user_id = ?", user.ID)
}

// CreateBook creates a book owned by the given user
func (a *App) CreateBook(user database.User, p BookParams) (database.Book, error) {
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
		return database.Book{}, ErrTitleRequired
	}
	if p.Author == nil || strings.TrimSpace(*p.Author) == "" {
		return database.Book{}, ErrAuthorRequired
	}
	if err := validate.Struct(p); err != nil {
		return database.Book{}, err
	}

	userID := user.ID
	book := database.Book{
		UserID:       &userID,
		AuthorSex:    database.AuthorSexUnknown,
		DateAcquired: a.Clock.Now().UTC(),
	}
	if err := fillBook(&book, p); err != nil {
		return database.Book{}, err
	}

	if err := a.DB.Create(&book).Error; err != nil {
		return database.Book{}, pkgErrors.Wrap(err, "inserting book")
	}

	return book, nil
}

// fillBook copies the non-nil params onto the given book
func fillBook(book *database.Book, p BookParams) error {
	for col, val := range p.updates() {
		switch col {
		case "title":
			book.Title = val.(string)
		case "author":
			book.Author = val.(string)
		case "format":
			book.Format = val.(string)
		case "page_count":
			book.PageCount = val.(int)
		case "isbn":
			book.ISBN = val.(string)
		case "author_sex":
			book.AuthorSex = val.(string)
		case "recommended":
			book.Recommended = val.(bool)
		case "genre":
			book.Genre = val.(string)
		case "published_year":
			book.PublishedYear = val.(int)
		case "publisher":
			book.Publisher = val.(string)
		case "date_acquired":
			book.DateAcquired = val.(time.Time)
		case "date_removed":
			t := val.(time.Time)
			book.DateRemoved = &t
		case "cost":
			book.Cost = val.(float64)
		case "starting_page":
			book.StartingPage = val.(int)
		case "finished":
			book.Finished = val.(bool)
		default:
			return pkgErrors.Errorf("unknown book column %s", col)
		}
	}

	return nil
}

// CreateBooks inserts the given books for the user in a single transaction.
// The books are assigned fresh identities.
func (a *App) CreateBooks(user database.User, books []database.Book) ([]database.Book, error) {
	if len(books) == 0 {
		return []database.Book{}, nil
	}

	userID := user.ID
	for i := range books {
		books[i].ID = 0
		books[i].UUID = ""
		books[i].UserID = &userID
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		for i := range books {
			if err := tx.Create(&books[i]).Error; err != nil {
				return pkgErrors.Wrapf(err, "inserting book %q", books[i].Title)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

// GetBook returns the book of the given uuid owned by the user
func (a *App) GetBook(user database.User, uuid string) (database.Book, error) {
	var book database.Book
	if !helpers.ValidateUUID(uuid) {
		return book, ErrNotFound
	}

	err := a.userBooks(user).Where("uuid = ?", uuid).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book, ErrNotFound
	} else if err != nil {
		return book, pkgErrors.Wrap(err, "finding book")
	}

	return book, nil
}

// GetBooks returns all books owned by the user
func (a *App) GetBooks(user database.User) ([]database.Book, error) {
	books := []database.Book{}
	if err := a.userBooks(user).Order("id ASC").Find(&books).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding books")
	}

	return books, nil
}

// GetBookByTitleAndAuthor returns the user's book whose title and author match
// the given ones case-insensitively
func (a *App) GetBookByTitleAndAuthor(user database.User, title, author string) (database.Book, error) {
	var book database.Book
	err := a.userBooks(user).
		Where("LOWER(title) = LOWER(?) AND LOWER(author) = LOWER(?)", strings.TrimSpace(title), strings.TrimSpace(author)).
		Order("id ASC").
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book, ErrNotFound
	} else if err != nil {
		return book, pkgErrors.Wrap(err, "finding book by title and author")
	}

	return book, nil
}

// GetBookTitles returns the titles of all books owned by the user
func (a *App) GetBookTitles(user database.User) ([]string, error) {
	titles := []string{}
	if err := a.userBooks(user).Order("id ASC").Pluck("title", &titles).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "plucking book titles")
	}

	return titles, nil
}

// GetCurrentlyReadingBooks returns the user's unfinished books that have
// either a reading session or a starting page
func (a *App) GetCurrentlyReadingBooks(user database.User) ([]database.Book, error) {
	books := []database.Book{}
	err := a.userBooks(user).
		Where("finished = ?", false).
		Where("starting_page > 0 OR EXISTS (SELECT 1 FROM reading_sessions WHERE reading_sessions.book_uuid = books.uuid)").
		Order("id ASC").
		Find(&books).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding currently reading books")
	}

	return books, nil
}

// UpdateBook updates the given fields of the user's book
func (a *App) UpdateBook(user database.User, uuid string, p BookParams) (database.Book, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return database.Book{}, ErrTitleRequired
	}
	if p.Author != nil && strings.TrimSpace(*p.Author) == "" {
		return database.Book{}, ErrAuthorRequired
	}
	if err := validate.Struct(p); err != nil {
		return database.Book{}, err
	}

	book, err := a.GetBook(user, uuid)
	if err != nil {
		return book, err
	}

	updates := p.updates()
	if len(updates) == 0 {
		return book, nil
	}

	if err := a.DB.Model(&book).Updates(updates).Error; err != nil {
		return book, pkgErrors.Wrap(err, "updating book")
	}

	return a.GetBook(user, uuid)
}

// SetBookStartingPage sets the starting page of the user's book
func (a *App) SetBookStartingPage(user database.User, uuid string, page int) error {
	res := a.userBooks(user).Where("uuid = ?", uuid).Update("starting_page", page)
	if res.Error != nil {
		return pkgErrors.Wrap(res.Error, "updating starting page")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// MarkBookFinished marks the user's book finished
func (a *App) MarkBookFinished(user database.User, uuid string) error {
	res := a.userBooks(user).Where("uuid = ?", uuid).Update("finished", true)
	if res.Error != nil {
		return pkgErrors.Wrap(res.Error, "marking book finished")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteBook deletes the user's book along with its reading sessions. It
// returns false if no such book exists.
func (a *App) DeleteBook(user database.User, uuid string) (bool, error) {
	var deleted bool

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var book database.Book
		err := tx.Where("user_id = ? AND uuid = ?", user.ID, uuid).First(&book).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		} else if err != nil {
			return pkgErrors.Wrap(err, "finding book")
		}

		if err := tx.Where("book_uuid = ?", book.UUID).Delete(&database.ReadingSession{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting reading sessions")
		}
		if err := tx.Delete(&book).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting book")
		}

		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}
