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

package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/validate"
	"github.com/pkg/errors"
)

// ValidationError is returned for a row that is missing a required field or
// carries a malformed one
type ValidationError struct {
	Row     int
	Reason  string
	Content string
}

func (e *ValidationError) Error() string {
	if e.Row == 0 {
		return e.Reason
	}

	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Reason, e.Content)
}

func newValidationError(row Row, format string, a ...interface{}) *ValidationError {
	return &ValidationError{
		Row:     row.Number,
		Reason:  fmt.Sprintf(format, a...),
		Content: row.String(),
	}
}

func missing(row Row, required ...string) []string {
	var ret []string
	for _, c := range required {
		if !row.Has(c) {
			ret = append(ret, c)
		}
	}

	return ret
}

func checkCandidate(row Row, c interface{}) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verr *validate.Error
	if errors.As(err, &verr) {
		return newValidationError(row, "%s", verr.Error())
	}

	return err
}

func isTrue(s string) bool {
	return strings.EqualFold(s, "true")
}

func isFinished(s string) bool {
	return isTrue(s) || s == "Y"
}

func canonicalAuthorSex(s string) string {
	for _, v := range database.AuthorSexes {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return v
		}
	}

	return database.AuthorSexUnknown
}

// BookCandidate is a book read from a spreadsheet row, not yet persisted
type BookCandidate struct {
	Title         string    `json:"title" validate:"required"`
	Author        string    `json:"author" validate:"required"`
	Format        string    `json:"format" validate:"required"`
	PageCount     int       `json:"page_count" validate:"min=0"`
	ISBN          string    `json:"isbn"`
	AuthorSex     string    `json:"author_sex" validate:"oneof=M F Other Unknown"`
	Recommended   bool      `json:"recommended"`
	Genre         string    `json:"genre"`
	PublishedYear int       `json:"published_year"`
	Publisher     string    `json:"publisher"`
	DateAcquired  time.Time `json:"date_acquired"`
	Cost          float64   `json:"cost"`
	StartingPage  int       `json:"starting_page" validate:"min=0"`
	Finished      bool      `json:"finished"`
}

// Book returns the candidate as a book model
func (c BookCandidate) Book() database.Book {
	return database.Book{
		Title:         c.Title,
		Author:        c.Author,
		Format:        c.Format,
		PageCount:     c.PageCount,
		ISBN:          c.ISBN,
		AuthorSex:     c.AuthorSex,
		Recommended:   c.Recommended,
		Genre:         c.Genre,
		PublishedYear: c.PublishedYear,
		Publisher:     c.Publisher,
		DateAcquired:  c.DateAcquired,
		DateRemoved:   nil,
		Cost:          c.Cost,
		StartingPage:  c.StartingPage,
		Finished:      c.Finished,
	}
}

// ToBook converts a row of a book sheet
func ToBook(row Row, now time.Time) (BookCandidate, error) {
	if m := missing(row, "title", "author", "format", "pagecount"); len(m) > 0 {
		return BookCandidate{}, newValidationError(row, "missing required fields %s", strings.Join(m, ", "))
	}

	pageCount, ok := leadingInt(row.Get("pagecount"))
	if !ok {
		return BookCandidate{}, newValidationError(row, "pagecount %q is not a number", row.Get("pagecount"))
	}

	startingPage := intOrZero(row.Get("startingpage"))
	if startingPage < 0 {
		startingPage = 0
	}

	dateAcquired := now.UTC()
	if row.Has("dateacquired") {
		dateAcquired = ParseDate(row.Get("dateacquired"), now)
	}

	c := BookCandidate{
		Title:         row.Get("title"),
		Author:        row.Get("author"),
		Format:        row.Get("format"),
		PageCount:     pageCount,
		ISBN:          row.Get("isbn"),
		AuthorSex:     canonicalAuthorSex(row.Get("authorsex")),
		Recommended:   isTrue(row.Get("recommended")),
		Genre:         row.Get("genre"),
		PublishedYear: intOrZero(row.Get("publishedyear")),
		Publisher:     row.Get("publisher"),
		DateAcquired:  dateAcquired,
		Cost:          floatOrZero(row.Get("cost")),
		StartingPage:  startingPage,
		Finished:      isFinished(row.Get("finished?", "finished")),
	}
	if err := checkCandidate(row, c); err != nil {
		return BookCandidate{}, err
	}

	return c, nil
}

// SessionCandidate is a reading session read from a spreadsheet row, not yet
// persisted
type SessionCandidate struct {
	Row       int       `json:"-"`
	BookUUID  string    `json:"book_uuid" validate:"required"`
	Date      time.Time `json:"date"`
	PagesRead int       `json:"pages_read"`
	Duration  int       `json:"duration"`
	Finished  bool      `json:"finished"`
	// CumulativePages is the running page count after the session
	CumulativePages int `json:"cumulative_pages"`
	// StartingPage is the page the session started from
	StartingPage int `json:"starting_page"`
}

// ReadingSession returns the candidate as a reading session model
func (c SessionCandidate) ReadingSession() database.ReadingSession {
	return database.ReadingSession{
		BookUUID:  c.BookUUID,
		Date:      c.Date,
		PagesRead: c.PagesRead,
		Duration:  c.Duration,
		Finished:  c.Finished,
	}
}

// hasBookReference reports whether the row names its book by title and
// author or by library book number
func hasBookReference(row Row) bool {
	return (row.Has("title") && row.Has("author")) || row.Has(columnLibraryBook)
}

const columnLibraryBook = "library book #"

// ToSession converts a row of a session sheet for the already resolved book
func ToSession(row Row, bookUUID string, now time.Time) (SessionCandidate, error) {
	if !row.Has("date") || !hasBookReference(row) {
		return SessionCandidate{}, newValidationError(row, "missing required fields date and either title and author or %s", columnLibraryBook)
	}

	pagesRead := intOrZero(row.Get("pages read", "pagesread"))
	cum := intOrZero(row.Get("cum pages", "cumulativepages"))

	var startingPage int
	if cum > 0 && cum-pagesRead > 0 {
		startingPage = cum - pagesRead
	}

	c := SessionCandidate{
		Row:             row.Number,
		BookUUID:        bookUUID,
		Date:            ParseDate(row.Get("date"), now),
		PagesRead:       pagesRead,
		Duration:        ParseDuration(row.Get("duration")),
		Finished:        isFinished(row.Get("finished?", "finished")),
		CumulativePages: cum,
		StartingPage:    startingPage,
	}
	if err := checkCandidate(row, c); err != nil {
		return SessionCandidate{}, err
	}

	return c, nil
}
