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
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pagemark/pagemark/pkg/dirs"
	"github.com/pagemark/pagemark/pkg/server/assets"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultSheetsBaseURL is the origin of the Google Sheets exports
	DefaultSheetsBaseURL = "https://docs.google.com"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataDir(), DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrGitHubConfigIncomplete is an error for a GitHub client id without a
	// secret, or the other way around
	ErrGitHubConfigIncomplete = errors.New("GitHub client id and secret must be set together")
)

// fileConfig is the content of a YAML configuration file
type fileConfig struct {
	AppEnv              string `yaml:"app_env"`
	Port                string `yaml:"port"`
	WebURL              string `yaml:"web_url"`
	DBPath              string `yaml:"db_path"`
	DatabaseURL         string `yaml:"database_url"`
	DisableRegistration bool   `yaml:"disable_registration"`
	LogLevel            string `yaml:"log_level"`
	GitHubClientID      string `yaml:"github_client_id"`
	GitHubClientSecret  string `yaml:"github_client_secret"`
	CSRFKey             string `yaml:"csrf_key"`
	SheetsBaseURL       string `yaml:"sheets_base_url"`
}

// readFile parses the YAML config file at path. Without a path, the file in
// the user's config directory is read if it exists.
func readFile(path string) (fileConfig, error) {
	var ret fileConfig
	if path == "" {
		path = dirs.ConfigFile()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return ret, nil
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return ret, errors.Wrapf(err, "reading config file '%s'", path)
	}
	if err := yaml.UnmarshalStrict(b, &ret); err != nil {
		return ret, errors.Wrapf(err, "parsing config file '%s'", path)
	}

	return ret, nil
}

// LoadEnvFile loads environment variables from a dotenv file. Variables that
// are already set are kept. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading '%s'", path)
	}

	return nil
}

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// resolve returns the first non-empty of the flag value, the env var, and
// the file value, falling back to the default
func resolve(value, envKey, fileVal, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	if fileVal != "" {
		return fileVal
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBPath              string
	DatabaseURL         string
	AssetBaseURL        string
	HTTP500Page         []byte
	LogLevel            string
	GitHubClientID      string
	GitHubClientSecret  string
	CSRFKey             string
	SheetsBaseURL       string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	// ConfigPath is the path to an optional YAML configuration file
	ConfigPath          string
	AppEnv              string
	Port                string
	WebURL              string
	DBPath              string
	DatabaseURL         string
	DisableRegistration bool
	LogLevel            string
}

// New constructs and returns a new validated config.
// Empty string params fall back to environment variables, then to the
// config file, then to defaults.
func New(p Params) (Config, error) {
	f, err := readFile(p.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	c := Config{
		AppEnv:              resolve(p.AppEnv, "APP_ENV", f.AppEnv, AppEnvProduction),
		Port:                resolve(p.Port, "PORT", f.Port, "3001"),
		WebURL:              resolve(p.WebURL, "WebURL", f.WebURL, "http://localhost:3001"),
		DBPath:              resolve(p.DBPath, "DBPath", f.DBPath, DefaultDBPath),
		DatabaseURL:         resolve(p.DatabaseURL, "DATABASE_URL", f.DatabaseURL, ""),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration") || f.DisableRegistration,
		LogLevel:            resolve(p.LogLevel, "LOG_LEVEL", f.LogLevel, "info"),
		GitHubClientID:      resolve("", "GITHUB_CLIENT_ID", f.GitHubClientID, ""),
		GitHubClientSecret:  resolve("", "GITHUB_CLIENT_SECRET", f.GitHubClientSecret, ""),
		CSRFKey:             resolve("", "CSRF_KEY", f.CSRFKey, ""),
		SheetsBaseURL:       resolve("", "SHEETS_BASE_URL", f.SheetsBaseURL, DefaultSheetsBaseURL),
		AssetBaseURL:        "/static",
		HTTP500Page:         assets.MustGetHTTP500ErrorPage(),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// GitHubEnabled reports whether GitHub sign-in is configured
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}

	if c.DatabaseURL == "" && c.DBPath == "" {
		return ErrDBMissingPath
	}
	if (c.GitHubClientID == "") != (c.GitHubClientSecret == "") {
		return ErrGitHubConfigIncomplete
	}
	if _, err := url.ParseRequestURI(c.SheetsBaseURL); err != nil {
		return errors.Wrapf(err, "invalid sheets base url '%s'", c.SheetsBaseURL)
	}

	return nil
}
