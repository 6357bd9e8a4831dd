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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pagemark/pagemark/pkg/dirs"
	"github.com/pkg/errors"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		config      Config
		expectedErr error
	}{
		{
			config: Config{
				DBPath:        "test.db",
				WebURL:        "http://mock.url",
				Port:          "3000",
				SheetsBaseURL: DefaultSheetsBaseURL,
			},
			expectedErr: nil,
		},
		{
			config: Config{
				DBPath:        "",
				WebURL:        "http://mock.url",
				Port:          "3000",
				SheetsBaseURL: DefaultSheetsBaseURL,
			},
			expectedErr: ErrDBMissingPath,
		},
		{
			config: Config{
				DatabaseURL:   "postgres://pagemark@localhost/pagemark",
				WebURL:        "http://mock.url",
				Port:          "3000",
				SheetsBaseURL: DefaultSheetsBaseURL,
			},
			expectedErr: nil,
		},
		{
			config: Config{
				DBPath: "test.db",
			},
			expectedErr: ErrWebURLInvalid,
		},
		{
			config: Config{
				DBPath: "test.db",
				WebURL: "http://mock.url",
			},
			expectedErr: ErrPortInvalid,
		},
		{
			config: Config{
				DBPath:         "test.db",
				WebURL:         "http://mock.url",
				Port:           "3000",
				GitHubClientID: "client-id",
				SheetsBaseURL:  DefaultSheetsBaseURL,
			},
			expectedErr: ErrGitHubConfigIncomplete,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			err := validate(tc.config)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestNew_precedence(t *testing.T) {
	path := writeFile(t, "pagemark.yml", `
port: "4000"
web_url: https://file.example.com
db_path: /var/lib/pagemark/file.db
log_level: warn
sheets_base_url: http://sheets.internal
`)

	t.Setenv("PORT", "5000")
	t.Setenv("WebURL", "")
	t.Setenv("DBPath", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SHEETS_BASE_URL", "")
	t.Setenv("GITHUB_CLIENT_ID", "")
	t.Setenv("GITHUB_CLIENT_SECRET", "")

	c, err := New(Params{ConfigPath: path, DBPath: "/tmp/flag.db"})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, c.DBPath, "/tmp/flag.db", "flag should win")
	assert.Equal(t, c.Port, "5000", "env should win over the file")
	assert.Equal(t, c.WebURL, "https://file.example.com", "file should win over the default")
	assert.Equal(t, c.LogLevel, "warn", "log level mismatch")
	assert.Equal(t, c.SheetsBaseURL, "http://sheets.internal", "sheets url mismatch")
	assert.Equal(t, c.GitHubEnabled(), false, "github should be disabled")
}

// useConfigHome points the user's config directory at dir for the test
func useConfigHome(t *testing.T, dir string) {
	t.Cleanup(dirs.Reload)
	t.Setenv("XDG_CONFIG_HOME", dir)
	dirs.Reload()
}

func TestNew_defaults(t *testing.T) {
	useConfigHome(t, t.TempDir())
	for _, k := range []string{"APP_ENV", "PORT", "WebURL", "DBPath", "DATABASE_URL", "DisableRegistration", "LOG_LEVEL", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "CSRF_KEY", "SHEETS_BASE_URL"} {
		t.Setenv(k, "")
	}

	c, err := New(Params{})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, c.AppEnv, AppEnvProduction, "app env mismatch")
	assert.Equal(t, c.Port, "3001", "port mismatch")
	assert.Equal(t, c.DBPath, DefaultDBPath, "db path mismatch")
	assert.Equal(t, c.SheetsBaseURL, DefaultSheetsBaseURL, "sheets url mismatch")
	assert.Equal(t, c.DisableRegistration, false, "registration mismatch")
	assert.Equal(t, c.IsProd(), true, "should be production")
}

func TestNew_userConfigFile(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	configHome := t.TempDir()
	useConfigHome(t, configHome)

	if err := os.MkdirAll(filepath.Join(configHome, "pagemark"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configHome, "pagemark", "pagemark.yml"), []byte("port: \"4100\"\nlog_level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}

	c, err := New(Params{})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, c.Port, "4100", "port should come from the user config file")
	assert.Equal(t, c.LogLevel, "debug", "log level mismatch")
}

func TestNew_invalidFile(t *testing.T) {
	path := writeFile(t, "pagemark.yml", "unknown_key: 1\n")

	_, err := New(Params{ConfigPath: path})
	assert.NotEqual(t, err, nil, "unknown keys should be rejected")

	_, err = New(Params{ConfigPath: filepath.Join(t.TempDir(), "missing.yml")})
	assert.NotEqual(t, err, nil, "a missing config file should be an error")
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("PAGEMARK_TEST_KEPT", "original")

	path := writeFile(t, ".env", "PAGEMARK_TEST_LOADED=loaded\nPAGEMARK_TEST_KEPT=overridden\n")
	t.Cleanup(func() { os.Unsetenv("PAGEMARK_TEST_LOADED") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, os.Getenv("PAGEMARK_TEST_LOADED"), "loaded", "variable should be loaded")
	assert.Equal(t, os.Getenv("PAGEMARK_TEST_KEPT"), "original", "existing variable should be kept")

	assert.Equal(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")), nil, "a missing file should be skipped")
}
