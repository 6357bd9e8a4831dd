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

// Package stats derives reading progress and finish-date estimates from a
// book and its reading sessions.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/pagemark/pagemark/pkg/server/database"
)

// defaultGapDays is the assumed spacing between sessions when there is
// only one session to go by
const defaultGapDays = 7

// Progress is the derived reading progress of a book
type Progress struct {
	TotalPagesRead     int     `json:"total_pages_read"`
	SessionPagesRead   int     `json:"session_pages_read"`
	PercentComplete    float64 `json:"percent_complete"`
	MinutesPerPage     float64 `json:"minutes_per_page"`
	PagesPerHour       float64 `json:"pages_per_hour"`
	EstimatedHoursLeft float64 `json:"estimated_hours_left"`
}

func sessionsOf(book database.Book, sessions []database.ReadingSession) []database.ReadingSession {
	ret := make([]database.ReadingSession, 0, len(sessions))
	for _, s := range sessions {
		if s.BookUUID == book.UUID {
			ret = append(ret, s)
		}
	}

	return ret
}

// CalculateProgress computes the progress of the book. Sessions of other
// books are ignored. Pages read before tracking began count toward the total.
func CalculateProgress(book database.Book, sessions []database.ReadingSession) Progress {
	var sessionPages, durationSeconds int
	for _, s := range sessionsOf(book, sessions) {
		sessionPages += s.PagesRead
		durationSeconds += s.Duration
	}

	totalPages := sessionPages + book.StartingPage
	totalMinutes := float64(durationSeconds) / 60

	var percent float64
	if book.PageCount != 0 {
		percent = float64(totalPages) / float64(book.PageCount) * 100
	}

	var minutesPerPage float64
	if sessionPages != 0 {
		minutesPerPage = totalMinutes / float64(sessionPages)
	}

	var pagesPerHour float64
	if totalMinutes != 0 {
		pagesPerHour = float64(sessionPages) / (totalMinutes / 60)
	}

	return Progress{
		TotalPagesRead:     totalPages,
		SessionPagesRead:   sessionPages,
		PercentComplete:    percent,
		MinutesPerPage:     minutesPerPage,
		PagesPerHour:       pagesPerHour,
		EstimatedHoursLeft: float64(book.PageCount-totalPages) * minutesPerPage / 60,
	}
}

// EstimateFinishDate projects when the book will be finished at the pace of
// its sessions. The starting page is not counted as read. It reports false
// if there is no basis for an estimate. The result may lie in the past.
func EstimateFinishDate(book database.Book, sessions []database.ReadingSession, now time.Time) (time.Time, bool) {
	own := sessionsOf(book, sessions)
	if len(own) == 0 {
		return time.Time{}, false
	}

	dates := make([]time.Time, 0, len(own))
	var pages int
	for _, s := range own {
		dates = append(dates, s.Date)
		pages += s.PagesRead
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gap := float64(defaultGapDays)
	if len(dates) > 1 {
		var total float64
		for i := 1; i < len(dates); i++ {
			total += dates[i].Sub(dates[i-1]).Hours() / 24
		}
		gap = total / float64(len(dates)-1)
	}

	avgPages := float64(pages) / float64(len(own))
	if avgPages == 0 {
		return time.Time{}, false
	}

	pagesLeft := float64(book.PageCount - pages)
	sessionsLeft := math.Ceil(pagesLeft / avgPages)
	daysLeft := sessionsLeft * gap

	return now.AddDate(0, 0, int(daysLeft)), true
}
