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

// Package importer converts spreadsheet rows into books and reading sessions
// and persists them for a user.
package importer

import (
	"context"
	"sort"
	"time"

	"github.com/pagemark/pagemark/pkg/clock"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// conversionLimit caps the rows converted at once
const conversionLimit = 8

// Store is the persistence a user's import runs against
type Store interface {
	Resolver
	BookTitles(ctx context.Context) ([]string, error)
	GetBook(ctx context.Context, uuid string) (database.Book, error)
	SetStartingPage(ctx context.Context, bookUUID string, page int) error
	MarkFinished(ctx context.Context, bookUUID string) error
	CreateBooks(ctx context.Context, books []database.Book) ([]database.Book, error)
	CreateReadingSession(ctx context.Context, s database.ReadingSession) (database.ReadingSession, error)
}

// Importer imports spreadsheet rows into a user's library
type Importer struct {
	clock clock.Clock
	store func(user database.User) Store
}

// New returns an importer backed by the app's database
func New(a *app.App) *Importer {
	return &Importer{
		clock: a.Clock,
		store: func(user database.User) Store {
			return a.Library(user)
		},
	}
}

// BookResult is the outcome of a book import
type BookResult struct {
	Imported int
	Books    []database.Book
}

// SessionResult is the outcome of a reading session import
type SessionResult struct {
	Imported int
	Failed   int
	Sessions []database.ReadingSession
}

func observe(kind string, start time.Time) {
	importDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// ImportBooks converts every row and then inserts all books at once. Any
// invalid row fails the import before anything is written.
func (i *Importer) ImportBooks(ctx context.Context, user database.User, rows []Row) (BookResult, error) {
	defer observe(kindBooks, time.Now())

	now := i.clock.Now()
	books := make([]database.Book, 0, len(rows))
	for _, row := range rows {
		c, err := ToBook(row, now)
		if err != nil {
			rowsTotal.WithLabelValues(kindBooks, outcomeFailed).Add(float64(len(rows)))
			return BookResult{}, err
		}

		books = append(books, c.Book())
	}

	created, err := i.store(user).CreateBooks(ctx, books)
	if err != nil {
		rowsTotal.WithLabelValues(kindBooks, outcomeFailed).Add(float64(len(rows)))
		return BookResult{}, errors.Wrap(err, "creating books")
	}

	rowsTotal.WithLabelValues(kindBooks, outcomeImported).Add(float64(len(created)))
	log.WithFields(log.Fields{
		"user_id": user.ID,
		"count":   len(created),
	}).Info("imported books")

	return BookResult{Imported: len(created), Books: created}, nil
}

func (i *Importer) convertSessions(ctx context.Context, store Store, rows []Row) ([]SessionCandidate, error) {
	now := i.clock.Now()
	ret := make([]SessionCandidate, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(conversionLimit)

	for idx := range rows {
		idx := idx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			row := rows[idx]
			if !row.Has("date") || !hasBookReference(row) {
				_, err := ToSession(row, "", now)
				return err
			}

			bookUUID, err := resolveBookUUID(gctx, store, row)
			if err != nil {
				return err
			}

			c, err := ToSession(row, bookUUID, now)
			if err != nil {
				return err
			}
			ret[idx] = c

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ret, nil
}

// groupByBook groups candidates by book, keeping the order in which books
// first appear
func groupByBook(cands []SessionCandidate) ([]string, map[string][]SessionCandidate) {
	var order []string
	groups := map[string][]SessionCandidate{}

	for _, c := range cands {
		if _, ok := groups[c.BookUUID]; !ok {
			order = append(order, c.BookUUID)
		}
		groups[c.BookUUID] = append(groups[c.BookUUID], c)
	}

	return order, groups
}

func finishes(book database.Book, c SessionCandidate) bool {
	if c.Finished {
		return true
	}

	return c.CumulativePages > 0 && book.PageCount > 0 && c.CumulativePages >= book.PageCount
}

// aggregate applies the corrections a batch of sessions implies to their
// books. It returns the books that exist. Failures are logged and skipped.
func aggregate(ctx context.Context, store Store, cands []SessionCandidate) map[string]bool {
	order, groups := groupByBook(cands)

	found := map[string]bool{}
	var toFinish []string

	for _, bookUUID := range order {
		group := groups[bookUUID]
		fields := log.Fields{"book_uuid": bookUUID}

		book, err := store.GetBook(ctx, bookUUID)
		if err != nil {
			if isNotFound(err) {
				log.WithFields(fields).Warn("skipping sessions of an unknown book")
			} else {
				log.WithFields(fields).ErrorWrap(err, "finding book")
			}
			continue
		}
		found[bookUUID] = true

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		if first := group[0]; first.StartingPage > 0 {
			if err := store.SetStartingPage(ctx, bookUUID, first.StartingPage); err != nil {
				log.WithFields(fields).ErrorWrap(err, "setting starting page")
			}
		}

		for _, c := range group {
			if finishes(book, c) {
				toFinish = append(toFinish, bookUUID)
				break
			}
		}
	}

	for _, bookUUID := range toFinish {
		if err := store.MarkFinished(ctx, bookUUID); err != nil {
			log.WithFields(log.Fields{"book_uuid": bookUUID}).ErrorWrap(err, "marking book finished")
		}
	}

	return found
}

// ImportSessions converts every row, corrects the starting page and finished
// state of the books involved, and then inserts the sessions one by one. A
// row that cannot be converted fails the import before anything is written.
// Later failures are counted and the import continues.
func (i *Importer) ImportSessions(ctx context.Context, user database.User, rows []Row) (SessionResult, error) {
	defer observe(kindSessions, time.Now())

	store := i.store(user)

	cands, err := i.convertSessions(ctx, store, rows)
	if err != nil {
		rowsTotal.WithLabelValues(kindSessions, outcomeFailed).Add(float64(len(rows)))
		return SessionResult{}, err
	}

	found := aggregate(ctx, store, cands)

	result := SessionResult{Sessions: []database.ReadingSession{}}
	for _, c := range cands {
		fields := log.Fields{"book_uuid": c.BookUUID, "row": c.Row}

		if !found[c.BookUUID] {
			log.WithFields(fields).Warn("not importing a session of an unknown book")
			result.Failed++
			continue
		}

		s, err := store.CreateReadingSession(ctx, c.ReadingSession())
		if err != nil {
			log.WithFields(fields).ErrorWrap(err, "inserting reading session")
			result.Failed++
			continue
		}

		result.Sessions = append(result.Sessions, s)
		result.Imported++
	}

	rowsTotal.WithLabelValues(kindSessions, outcomeImported).Add(float64(result.Imported))
	rowsTotal.WithLabelValues(kindSessions, outcomeFailed).Add(float64(result.Failed))
	log.WithFields(log.Fields{
		"user_id":  user.ID,
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("imported reading sessions")

	return result, nil
}
