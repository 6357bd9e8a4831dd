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

package app

import (
	"net/http"

	"github.com/pagemark/pagemark/pkg/clock"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyWebURL is an error for missing WebURL content in the app configuration
	ErrEmptyWebURL = errors.New("No WebURL was provided")
	// ErrEmptyHTTP500Page is an error for missing HTTP 500 page content
	ErrEmptyHTTP500Page = errors.New("No HTTP 500 error page was set")
	// ErrEmptyHTTPClient is an error for a missing outbound HTTP client
	ErrEmptyHTTPClient = errors.New("No HTTP client was provided")
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction = "PRODUCTION"
)

// App is an application context
type App struct {
	DB                  *gorm.DB
	Clock               clock.Clock
	HTTP500Page         []byte
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBPath              string
	AssetBaseURL        string
	// SheetsBaseURL is the origin the spreadsheet exports are fetched from
	SheetsBaseURL string
	// HTTPClient is used for outbound requests such as spreadsheet exports
	HTTPClient *http.Client
	// GitHub is the OAuth configuration for GitHub sign-in. It is nil when
	// GitHub sign-in is not configured.
	GitHub *oauth2.Config
	// GitHubAPIURL overrides the GitHub REST API origin
	GitHubAPIURL string
	CSRFKey      []byte
}

// IsProd checks if the app environment is configured to be production.
func (a *App) IsProd() bool {
	return a.AppEnv == AppEnvProduction
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.HTTP500Page == nil {
		return ErrEmptyHTTP500Page
	}
	if a.HTTPClient == nil {
		return ErrEmptyHTTPClient
	}

	return nil
}
