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
	"github.com/pagemark/pagemark/pkg/server/useragent"
)

// Session is a login session as shown to its owner
type Session struct {
	UUID       string               `json:"uuid"`
	CreatedAt  time.Time            `json:"created_at"`
	LastUsedAt time.Time            `json:"last_used_at"`
	ExpiresAt  time.Time            `json:"expires_at"`
	IPAddress  string               `json:"ip_address"`
	Device     useragent.DeviceInfo `json:"device"`
	Current    bool                 `json:"current"`
}

// PresentSessions presents login sessions. The session with currentKey is
// flagged as the one making the request.
func PresentSessions(sessions []database.Session, currentKey string) []Session {
	ret := []Session{}

	for _, s := range sessions {
		ret = append(ret, Session{
			UUID:       s.UUID,
			CreatedAt:  FormatTS(s.CreatedAt),
			LastUsedAt: FormatTS(s.LastUsedAt),
			ExpiresAt:  FormatTS(s.ExpiresAt),
			IPAddress:  s.IPAddress,
			Device:     useragent.Parse(s.UserAgent),
			Current:    currentKey != "" && s.Key == currentKey,
		})
	}

	return ret
}
