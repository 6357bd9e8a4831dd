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
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pkg/errors"
)

const maxSuggestions = 3

// Resolver finds the book a session row refers to. It returns
// app.ErrNotFound when no book matches.
type Resolver interface {
	FindBookByTitleAndAuthor(ctx context.Context, title, author string) (database.Book, error)
}

// NotFoundError is returned for a session row whose book does not exist
type NotFoundError struct {
	Row         int
	Title       string
	Author      string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("book not found: %s by %s", e.Title, e.Author)
	if len(e.Suggestions) > 0 {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, strings.Join(e.Suggestions, ", "))
	}

	return msg
}

// suggest returns up to three titles close to the given one. Titles that
// contain the query in order rank first, then titles within a small edit
// distance.
func suggest(title string, titles []string) []string {
	ret := []string{}
	seen := map[string]bool{}
	add := func(s string) bool {
		if seen[s] {
			return false
		}
		seen[s] = true
		ret = append(ret, s)
		return len(ret) >= maxSuggestions
	}

	ranks := fuzzy.RankFindNormalizedFold(title, titles)
	sort.Sort(ranks)
	for _, r := range ranks {
		if add(r.Target) {
			return ret
		}
	}

	type candidate struct {
		title    string
		distance int
		index    int
	}
	query := strings.ToLower(title)
	threshold := len(query)/3 + 1

	var close []candidate
	for i, t := range titles {
		d := fuzzy.LevenshteinDistance(query, strings.ToLower(t))
		if d <= threshold {
			close = append(close, candidate{t, d, i})
		}
	}
	sort.SliceStable(close, func(i, j int) bool {
		return close[i].distance < close[j].distance
	})
	for _, c := range close {
		if add(c.title) {
			break
		}
	}

	return ret
}

// resolveBookUUID returns the uuid of the book a session row refers to. Rows
// without title and author use the library book number verbatim.
func resolveBookUUID(ctx context.Context, store Store, row Row) (string, error) {
	title, author := row.Get("title"), row.Get("author")
	if title == "" || author == "" {
		return row.Get(columnLibraryBook), nil
	}

	book, err := store.FindBookByTitleAndAuthor(ctx, title, author)
	if err == nil {
		return book.UUID, nil
	}
	if !isNotFound(err) {
		return "", errors.Wrapf(err, "finding book for row %d", row.Number)
	}

	nf := &NotFoundError{Row: row.Number, Title: title, Author: author}
	if titles, err := store.BookTitles(ctx); err == nil {
		nf.Suggestions = suggest(title, titles)
	}

	return "", nf
}

func isNotFound(err error) bool {
	return errors.Is(err, app.ErrNotFound)
}
