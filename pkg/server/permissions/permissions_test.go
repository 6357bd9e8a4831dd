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

package permissions

import (
	"testing"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pagemark/pagemark/pkg/server/database"
)

func TestIsAdmin(t *testing.T) {
	testCases := []struct {
		name     string
		user     *database.User
		expected bool
	}{
		{"admin", &database.User{Role: database.RoleAdmin}, true},
		{"regular user", &database.User{Role: database.RoleUser}, false},
		{"guest", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, IsAdmin(tc.user), tc.expected, "result mismatch")
		})
	}
}
