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
	"github.com/pagemark/pagemark/pkg/server/stats"
)

// Progress is the reading progress of a book
type Progress struct {
	Progress            stats.Progress `json:"progress"`
	EstimatedFinishDate *time.Time     `json:"estimated_finish_date"`
}

// PresentProgress computes and presents the progress of a book
func PresentProgress(book database.Book, sessions []database.ReadingSession, now time.Time) Progress {
	ret := Progress{
		Progress: stats.CalculateProgress(book, sessions),
	}

	if t, ok := stats.EstimateFinishDate(book, sessions, now); ok {
		t = FormatTS(t)
		ret.EstimatedFinishDate = &t
	}

	return ret
}
