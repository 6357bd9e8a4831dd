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

// Package useragent summarizes a User-Agent header for display next to a
// login session.
package useragent

import "strings"

// DeviceInfo is a coarse description of the client behind a User-Agent
type DeviceInfo struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
	Icon    string `json:"icon"`
}

type rule struct {
	needles []string
	name    string
	icon    string
}

// Order matters. Chromium-based browsers also advertise "chrome" and
// "safari", and Chrome advertises "safari".
var browsers = []rule{
	{[]string{"edg/", "edge"}, "Edge", "🔵"},
	{[]string{"chrome"}, "Chrome", "🟢"},
	{[]string{"firefox"}, "Firefox", "🦊"},
	{[]string{"safari"}, "Safari", "🍎"},
	{[]string{"opera"}, "Opera", "🌐"},
}

var systems = []rule{
	{needles: []string{"windows"}, name: "Windows"},
	{needles: []string{"mac"}, name: "macOS"},
	{needles: []string{"linux", "ubuntu", "debian"}, name: "Linux"},
	{needles: []string{"android"}, name: "Android"},
	{needles: []string{"ios", "iphone", "ipad"}, name: "iOS"},
}

func (r rule) match(ua string) bool {
	for _, n := range r.needles {
		if strings.Contains(ua, n) {
			return true
		}
	}

	return false
}

// Parse describes the client of the given User-Agent header
func Parse(userAgent string) DeviceInfo {
	ua := strings.ToLower(userAgent)

	ret := DeviceInfo{
		Browser: "Unknown Browser",
		OS:      "Unknown OS",
		Device:  "Desktop",
		Icon:    "🌐",
	}

	for _, r := range browsers {
		if r.match(ua) {
			ret.Browser = r.name
			ret.Icon = r.icon
			break
		}
	}

	for _, r := range systems {
		if r.match(ua) {
			ret.OS = r.name
			break
		}
	}

	if strings.Contains(ua, "mobile") {
		ret.Device = "Mobile"
	} else if strings.Contains(ua, "tablet") {
		ret.Device = "Tablet"
	}

	if strings.Contains(ua, "bot") || strings.Contains(ua, "crawl") || strings.Contains(ua, "spider") {
		ret.Browser = "Bot"
		ret.Device = "Bot"
		ret.Icon = "🤖"
	}

	return ret
}
