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
	"fmt"
	"math"
	"time"
)

type timeDiff struct {
	text  string
	tense string
}

func pluralize(singular string, count int) string {
	if count == 1 {
		return singular
	}

	return singular + "s"
}

func abs(num int64) int64 {
	if num < 0 {
		return -num
	}

	return num
}

var (
	day  = 24 * time.Hour.Milliseconds()
	week = 7 * day
)

var units = []struct {
	ms   int64
	noun string
}{
	{52 * week, "year"},
	{4 * week, "month"},
	{week, "week"},
	{day, "day"},
	{time.Hour.Milliseconds(), "hour"},
	{time.Minute.Milliseconds(), "minute"},
}

func relativeTimeDiff(t1, t2 time.Time) timeDiff {
	diff := t1.Sub(t2)
	ts := abs(diff.Milliseconds())

	tense := "future"
	if diff > 0 {
		tense = "past"
	}

	for _, u := range units {
		if interval := ts / u.ms; interval >= 1 {
			return timeDiff{
				text:  fmt.Sprintf("%d %s", interval, pluralize(u.noun, int(interval))),
				tense: tense,
			}
		}
	}

	return timeDiff{
		text: "Just now",
	}
}

// timeAgo describes t relative to now, e.g. "3 days ago" or "in 2 weeks"
func timeAgo(now time.Time, t interface{}) string {
	var ts time.Time
	switch v := t.(type) {
	case time.Time:
		ts = v
	case *time.Time:
		if v == nil {
			return ""
		}
		ts = *v
	default:
		return ""
	}

	d := relativeTimeDiff(now, ts)
	switch d.tense {
	case "past":
		return d.text + " ago"
	case "future":
		return "in " + d.text
	default:
		return d.text
	}
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}

func formatDate(t interface{}) string {
	switch v := t.(type) {
	case time.Time:
		return v.Format("2 Jan 2006")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2 Jan 2006")
	default:
		return ""
	}
}
