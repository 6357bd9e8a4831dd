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
	"github.com/pagemark/pagemark/pkg/server/importer"
)

// ImportResult is the response to a spreadsheet import
type ImportResult struct {
	Success  bool             `json:"success"`
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Books    []Book           `json:"books,omitempty"`
	Sessions []ReadingSession `json:"sessions,omitempty"`
}

// PresentBookImport presents the result of a book import
func PresentBookImport(r importer.BookResult) ImportResult {
	return ImportResult{
		Success:  true,
		Imported: r.Imported,
		Books:    PresentBooks(r.Books),
	}
}

// PresentSessionImport presents the result of a reading session import
func PresentSessionImport(r importer.SessionResult) ImportResult {
	return ImportResult{
		Success:  true,
		Imported: r.Imported,
		Failed:   r.Failed,
		Sessions: PresentReadingSessions(r.Sessions),
	}
}
