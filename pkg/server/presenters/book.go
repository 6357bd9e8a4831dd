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
	"time"

	"github.com/pagemark/pagemark/pkg/server/database"
)

// Book is a result of PresentBooks
type Book struct {
	UUID          string     `json:"uuid"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Format        string     `json:"format"`
	PageCount     int        `json:"page_count"`
	ISBN          string     `json:"isbn"`
	AuthorSex     string     `json:"author_sex"`
	Recommended   bool       `json:"recommended"`
	Genre         string     `json:"genre"`
	PublishedYear int        `json:"published_year"`
	Publisher     string     `json:"publisher"`
	DateAcquired  time.Time  `json:"date_acquired"`
	DateRemoved   *time.Time `json:"date_removed"`
	Cost          float64    `json:"cost"`
	StartingPage  int        `json:"starting_page"`
	Finished      bool       `json:"finished"`
}

// PresentBook presents a book
func PresentBook(book database.Book) Book {
	return Book{
		UUID:          book.UUID,
		CreatedAt:     FormatTS(book.CreatedAt),
		UpdatedAt:     FormatTS(book.UpdatedAt),
		Title:         book.Title,
		Author:        book.Author,
		Format:        book.Format,
		PageCount:     book.PageCount,
		ISBN:          book.ISBN,
		AuthorSex:     book.AuthorSex,
		Recommended:   book.Recommended,
		Genre:         book.Genre,
		PublishedYear: book.PublishedYear,
		Publisher:     book.Publisher,
		DateAcquired:  FormatTS(book.DateAcquired),
		DateRemoved:   FormatOptionalTS(book.DateRemoved),
		Cost:          book.Cost,
		StartingPage:  book.StartingPage,
		Finished:      book.Finished,
	}
}

// PresentBooks presents books
func PresentBooks(books []database.Book) []Book {
	ret := []Book{}

	for _, book := range books {
		p := PresentBook(book)
		ret = append(ret, p)
	}

	return ret
}
