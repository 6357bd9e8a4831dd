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

package views

import (
	"testing"
	"time"

	"github.com/pagemark/pagemark/pkg/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"just now", now.Add(-20 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", now.Add(-time.Hour), "1 hour ago"},
		{"days", now.AddDate(0, 0, -3), "3 days ago"},
		{"weeks", now.AddDate(0, 0, -15), "2 weeks ago"},
		{"months", now.AddDate(0, 0, -70), "2 months ago"},
		{"years", now.AddDate(-2, 0, 0), "2 years ago"},
		{"future", now.AddDate(0, 0, 9), "in 1 week"},
		{"nil pointer", (*time.Time)(nil), ""},
		{"unsupported", "yesterday", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, timeAgo(now, tc.input), tc.expected, "result mismatch")
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, formatPercent(0), "0%", "zero")
	assert.Equal(t, formatPercent(42.6), "43%", "rounding")
	assert.Equal(t, formatPercent(120), "120%", "over 100")
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, formatDate(d), "7 Mar 2025", "value")
	assert.Equal(t, formatDate(&d), "7 Mar 2025", "pointer")
	assert.Equal(t, formatDate((*time.Time)(nil)), "", "nil pointer")
}
