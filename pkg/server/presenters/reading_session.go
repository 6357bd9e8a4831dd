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

// ReadingSession is a result of PresentReadingSessions
type ReadingSession struct {
	UUID      string    `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookUUID  string    `json:"book_uuid"`
	Date      time.Time `json:"date"`
	PagesRead int       `json:"pages_read"`
	Duration  int       `json:"duration"`
	Finished  bool      `json:"finished"`
}

// PresentReadingSession presents a reading session
func PresentReadingSession(s database.ReadingSession) ReadingSession {
	return ReadingSession{
		UUID:      s.UUID,
		CreatedAt: FormatTS(s.CreatedAt),
		UpdatedAt: FormatTS(s.UpdatedAt),
		BookUUID:  s.BookUUID,
		Date:      FormatTS(s.Date),
		PagesRead: s.PagesRead,
		Duration:  s.Duration,
		Finished:  s.Finished,
	}
}

// PresentReadingSessions presents reading sessions
func PresentReadingSessions(sessions []database.ReadingSession) []ReadingSession {
	ret := []ReadingSession{}

	for _, s := range sessions {
		ret = append(ret, PresentReadingSession(s))
	}

	return ret
}
