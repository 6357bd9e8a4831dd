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
	"testing"
	"time"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pkg/errors"
)

var testNow = time.Date(2024, time.August, 1, 9, 0, 0, 0, time.UTC)

func bookRow(values map[string]string) Row {
	base := map[string]string{
		"title":     "Middlemarch",
		"author":    "George Eliot",
		"format":    "Hardcover",
		"pagecount": "880",
	}
	for k, v := range values {
		base[k] = v
	}

	return NewRow(3, base)
}

func TestToBook(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := ToBook(bookRow(nil), testNow)
		if err != nil {
			t.Fatal(err)
		}

		assert.DeepEqual(t, c, BookCandidate{
			Title:        "Middlemarch",
			Author:       "George Eliot",
			Format:       "Hardcover",
			PageCount:    880,
			AuthorSex:    database.AuthorSexUnknown,
			DateAcquired: testNow,
		}, "candidate mismatch")
	})

	t.Run("optional fields", func(t *testing.T) {
		c, err := ToBook(bookRow(map[string]string{
			"isbn":          "9780141439549",
			"authorsex":     "f",
			"recommended":   "TRUE",
			"genre":         "Classic",
			"publishedyear": "1871",
			"publisher":     "Penguin",
			"dateacquired":  "05/01/2024",
			"cost":          "12.99",
			"startingpage":  "100",
			"finished?":     "Y",
		}), testNow)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, c.ISBN, "9780141439549", "isbn mismatch")
		assert.Equal(t, c.AuthorSex, database.AuthorSexFemale, "author sex should be canonical")
		assert.Equal(t, c.Recommended, true, "recommended mismatch")
		assert.Equal(t, c.Genre, "Classic", "genre mismatch")
		assert.Equal(t, c.PublishedYear, 1871, "published year mismatch")
		assert.Equal(t, c.Publisher, "Penguin", "publisher mismatch")
		assert.Equal(t, c.DateAcquired.Equal(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)), true, "date mismatch")
		assert.Equal(t, c.Cost, 12.99, "cost mismatch")
		assert.Equal(t, c.StartingPage, 100, "starting page mismatch")
		assert.Equal(t, c.Finished, true, "finished mismatch")

		b := c.Book()
		assert.Equal(t, b.DateRemoved == nil, true, "date removed should be nil")
		assert.Equal(t, b.UUID, "", "uuid should be assigned on insert")
	})

	t.Run("lenient values", func(t *testing.T) {
		c, err := ToBook(bookRow(map[string]string{
			"authorsex":    "someone",
			"recommended":  "yes",
			"startingpage": "-5",
			"cost":         "free",
			"finished":     "y",
		}), testNow)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, c.AuthorSex, database.AuthorSexUnknown, "author sex mismatch")
		assert.Equal(t, c.Recommended, false, "recommended mismatch")
		assert.Equal(t, c.StartingPage, 0, "negative starting page should be clamped")
		assert.Equal(t, c.Cost, 0.0, "cost mismatch")
		assert.Equal(t, c.Finished, false, "lowercase y should not count as finished")
	})
}

func TestToBook_invalid(t *testing.T) {
	testCases := []struct {
		name   string
		values map[string]string
	}{
		{"missing title", map[string]string{"title": ""}},
		{"missing author", map[string]string{"author": ""}},
		{"missing format", map[string]string{"format": ""}},
		{"missing pagecount", map[string]string{"pagecount": ""}},
		{"non-numeric pagecount", map[string]string{"pagecount": "many"}},
		{"negative pagecount", map[string]string{"pagecount": "-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToBook(bookRow(tc.values), testNow)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			assert.Equal(t, verr.Row, 3, "row mismatch")
			assert.NotEqual(t, verr.Content, "", "content should be set")
		})
	}
}

func TestToSession(t *testing.T) {
	const bookUUID = "0b9e2b4e-5f3c-4a59-8d0e-6c1f1d7a2b3c"

	testCases := []struct {
		name     string
		values   map[string]string
		expected SessionCandidate
	}{
		{
			name: "full row",
			values: map[string]string{
				"date":       "05/01/2024",
				"title":      "Middlemarch",
				"author":     "George Eliot",
				"pages read": "30",
				"cum pages":  "130",
				"duration":   "0:45:00",
				"finished?":  "true",
			},
			expected: SessionCandidate{
				Row:             2,
				BookUUID:        bookUUID,
				Date:            time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
				PagesRead:       30,
				Duration:        2700,
				Finished:        true,
				CumulativePages: 130,
				StartingPage:    100,
			},
		},
		{
			name: "alternate column names",
			values: map[string]string{
				"date":            "2024-01-05",
				"library book #":  bookUUID,
				"pagesread":       "20",
				"cumulativepages": "20",
			},
			expected: SessionCandidate{
				Row:             2,
				BookUUID:        bookUUID,
				Date:            time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
				PagesRead:       20,
				CumulativePages: 20,
			},
		},
		{
			name: "no cumulative pages",
			values: map[string]string{
				"date":           "2024-01-05",
				"library book #": bookUUID,
				"pages read":     "x",
			},
			expected: SessionCandidate{
				Row:      2,
				BookUUID: bookUUID,
				Date:     time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ToSession(NewRow(2, tc.values), bookUUID, testNow)
			if err != nil {
				t.Fatal(err)
			}
			assert.DeepEqual(t, c, tc.expected, "candidate mismatch")
		})
	}
}

func TestToSession_invalid(t *testing.T) {
	testCases := []struct {
		name   string
		values map[string]string
	}{
		{"missing date", map[string]string{"title": "Emma", "author": "Jane Austen"}},
		{"missing author", map[string]string{"date": "01/01/2024", "title": "Emma"}},
		{"missing book reference", map[string]string{"date": "01/01/2024", "pages read": "3"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToSession(NewRow(4, tc.values), "x", testNow)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			assert.Equal(t, verr.Row, 4, "row mismatch")
		})
	}
}
