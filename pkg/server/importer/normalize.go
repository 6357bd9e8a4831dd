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
	"math"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the layout of normalized dates
const ISOLayout = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// leadingInt parses the integer at the start of s, ignoring leading
// whitespace and anything after the digits
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == start {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}

// leadingFloat parses the decimal number at the start of s, ignoring
// leading whitespace and anything after the number
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	// optional exponent, only if it is complete
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		expStart := exp
		for exp < len(s) && isDigit(s[exp]) {
			exp++
		}
		if exp > expStart {
			end = exp
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

func intOrZero(s string) int {
	n, _ := leadingInt(s)
	return n
}

func floatOrZero(s string) float64 {
	f, _ := leadingFloat(s)
	return f
}

// ParseDuration converts "h:mm:ss", "m:ss" or plain seconds to whole seconds
func ParseDuration(s string) int {
	if s == "" {
		return 0
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 3:
			return intOrZero(parts[0])*3600 + intOrZero(parts[1])*60 + intOrZero(parts[2])
		case 2:
			return intOrZero(parts[0])*60 + intOrZero(parts[1])
		}
	}

	return int(math.Round(floatOrZero(s)))
}

// parseDayFirst parses dd/mm/yyyy and dd/mm/yy
func parseDayFirst(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || len(parts[0]) > 2 || len(parts[1]) > 2 {
		return time.Time{}, false
	}

	year := parts[2]
	if len(year) == 2 {
		year = "20" + year
	}

	d, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(year)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, so an impossible date comes back different
	if t.Day() != d || int(t.Month()) != m || t.Year() != y {
		return time.Time{}, false
	}

	return t, true
}

// ParseDate parses a spreadsheet date. Slash-separated dates are day first.
// Anything unparseable yields now.
func ParseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UTC()
	}

	if strings.Contains(s, "/") {
		if t, ok := parseDayFirst(s); ok {
			return t
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}

	return now.UTC()
}

// NormalizeDate returns ParseDate formatted as an ISO-8601 UTC timestamp
func NormalizeDate(s string, now time.Time) string {
	return ParseDate(s, now).Format(ISOLayout)
}
