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

package dirs

import (
	"path/filepath"
	"testing"

	"github.com/pagemark/pagemark/pkg/assert"
)

func TestReload(t *testing.T) {
	t.Cleanup(Reload)
	t.Setenv("HOME", "/home/reader")

	testCases := []struct {
		name               string
		configHome         string
		dataHome           string
		expectedConfigHome string
		expectedDataHome   string
	}{
		{
			name:               "defaults",
			expectedConfigHome: "/home/reader/.config",
			expectedDataHome:   "/home/reader/.local/share",
		},
		{
			name:               "xdg overrides",
			configHome:         "/etc/xdg",
			dataHome:           "/srv/data",
			expectedConfigHome: "/etc/xdg",
			expectedDataHome:   "/srv/data",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tc.configHome)
			t.Setenv("XDG_DATA_HOME", tc.dataHome)
			Reload()

			assert.Equal(t, Home, "/home/reader", "home mismatch")
			assert.Equal(t, ConfigHome, tc.expectedConfigHome, "config home mismatch")
			assert.Equal(t, DataHome, tc.expectedDataHome, "data home mismatch")
			assert.Equal(t, DataDir(), filepath.Join(tc.expectedDataHome, "pagemark"), "data dir mismatch")
			assert.Equal(t, ConfigFile(), filepath.Join(tc.expectedConfigHome, "pagemark", "pagemark.yml"), "config file mismatch")
		})
	}
}
