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
	"encoding/json"
	"sort"
	"strings"
)

// ErrInsufficientData is returned when a sheet has no data below its header
var ErrInsufficientData = &ValidationError{Reason: "sheet contains insufficient data"}

// Row is a data row keyed by its lowercased header
type Row struct {
	// Number is the 1-based position of the row among the data rows
	Number int
	values map[string]string
}

// NewRow returns a row with the given values. Keys are matched
// case-insensitively.
func NewRow(number int, values map[string]string) Row {
	r := Row{Number: number, values: make(map[string]string, len(values))}
	for k, v := range values {
		r.values[normalizeHeader(k)] = v
	}

	return r
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Get returns the first non-empty value among the given columns
func (r Row) Get(columns ...string) string {
	for _, c := range columns {
		if v := r.values[normalizeHeader(c)]; v != "" {
			return v
		}
	}

	return ""
}

// Has reports whether any of the given columns has a non-empty value
func (r Row) Has(columns ...string) bool {
	return r.Get(columns...) != ""
}

// String returns the row as a JSON object with sorted keys
func (r Row) String() string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(r.values[k])
		ordered = append(ordered, string(kb)+":"+string(vb))
	}

	return "{" + strings.Join(ordered, ",") + "}"
}

// Project turns tokenized rows into header-keyed rows. The first row is the
// header. Missing trailing cells are empty.
func Project(rows [][]string) []Row {
	if len(rows) == 0 {
		return []Row{}
	}

	header := rows[0]
	ret := make([]Row, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		r := Row{Number: i + 1, values: make(map[string]string, len(header))}
		for j, h := range header {
			var v string
			if j < len(cells) {
				v = cells[j]
			}
			r.values[normalizeHeader(h)] = v
		}
		ret = append(ret, r)
	}

	return ret
}

// Parse tokenizes CSV text and projects it onto its header
func Parse(text string) ([]Row, error) {
	return projectChecked(Tokenize(text))
}

func projectChecked(rows [][]string) ([]Row, error) {
	if len(rows) < 2 {
		return nil, ErrInsufficientData
	}

	return Project(rows), nil
}
