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

package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/assets"
	mw "github.com/pagemark/pagemark/pkg/server/middleware"
	"github.com/pkg/errors"
)

// APIPrefix is the path prefix of the JSON API
const APIPrefix = "/api/v1"

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	WebRoutes   []Route
	APIRoutes   []Route
}

// NewWebRoutes returns the routes for the server rendered pages
func NewWebRoutes(a *app.App, c *Controllers) []Route {
	redirectGuest := &mw.AuthParams{RedirectGuestsToLogin: true}

	ret := []Route{
		{"GET", "/", mw.Auth(a, c.Dashboard.Index, redirectGuest), true},
		{"GET", "/login", mw.GuestOnly(a, c.Users.NewLogin), true},
		{"POST", "/login", mw.GuestOnly(a, c.Users.Login), true},
		{"POST", "/logout", c.Users.Logout, true},
		{"GET", "/health", c.Health.Index, true},
		{"GET", "/metrics", c.Metrics.Index, true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"GET", "/join", mw.GuestOnly(a, c.Users.New), true})
		ret = append(ret, Route{"POST", "/join", mw.GuestOnly(a, c.Users.Create), true})
	}

	if a.GitHub != nil {
		ret = append(ret, Route{"GET", "/auth/github", mw.GuestOnly(a, c.GitHub.Start), true})
		ret = append(ret, Route{"GET", "/auth/github/callback", c.GitHub.Callback, true})
	}

	return ret
}

// NewAPIRoutes returns the routes of the JSON API, relative to APIPrefix
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"POST", "/signin", c.Users.APILogin, true},
		{"POST", "/signout", c.Users.APILogout, true},
		{"GET", "/me", mw.Auth(a, c.Users.Me, nil), true},

		// currently-reading is registered ahead of the {bookUUID} pattern
		{"GET", "/books/currently-reading", mw.Auth(a, c.Books.CurrentlyReading, nil), true},
		{"GET", "/books", mw.Auth(a, c.Books.Index, nil), true},
		{"POST", "/books", mw.Auth(a, c.Books.Create, nil), true},
		{"GET", "/books/{bookUUID}", mw.Auth(a, c.Books.Show, nil), true},
		{"PUT", "/books/{bookUUID}", mw.Auth(a, c.Books.Update, nil), true},
		{"PATCH", "/books/{bookUUID}", mw.Auth(a, c.Books.Update, nil), true},
		{"DELETE", "/books/{bookUUID}", mw.Auth(a, c.Books.Delete, nil), true},
		{"GET", "/books/{bookUUID}/progress", mw.Auth(a, c.Books.Progress, nil), true},

		{"GET", "/reading-sessions", mw.Auth(a, c.ReadingSessions.Index, nil), true},
		{"POST", "/reading-sessions", mw.Auth(a, c.ReadingSessions.Create, nil), true},
		{"GET", "/reading-sessions/book/{bookUUID}", mw.Auth(a, c.ReadingSessions.ByBook, nil), true},
		{"GET", "/reading-sessions/{sessionUUID}", mw.Auth(a, c.ReadingSessions.Show, nil), true},
		{"PUT", "/reading-sessions/{sessionUUID}", mw.Auth(a, c.ReadingSessions.Update, nil), true},
		{"PATCH", "/reading-sessions/{sessionUUID}", mw.Auth(a, c.ReadingSessions.Update, nil), true},
		{"DELETE", "/reading-sessions/{sessionUUID}", mw.Auth(a, c.ReadingSessions.Delete, nil), true},

		{"POST", "/import-sheets", mw.Auth(a, c.Imports.ImportSheets, nil), true},
		{"POST", "/import-file", mw.Auth(a, c.Imports.ImportFile, nil), true},

		{"GET", "/account/sessions", mw.Auth(a, c.Accounts.Sessions, nil), true},
		{"DELETE", "/account/sessions/{sessionUUID}", mw.Auth(a, c.Accounts.RevokeSession, nil), true},

		{"GET", "/admin/users", mw.AdminOnly(a, c.Admin.Users), true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix(APIPrefix).Subrouter()
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	webRouter := router.PathPrefix("/").Subrouter()
	registerRoutes(webRouter, mw.WebMw, app, rc.WebRoutes)

	staticFs, err := assets.GetStaticFS()
	if err != nil {
		return nil, errors.Wrap(err, "getting the filesystem for static files")
	}

	staticHandler := http.StripPrefix("/static/", http.FileServer(http.FS(staticFs)))
	router.PathPrefix("/static/").Handler(staticHandler)
	router.HandleFunc("/robots.txt", rc.Controllers.Static.Robots)

	// catch-all
	router.PathPrefix("/").HandlerFunc(rc.Controllers.Static.NotFound)

	return mw.Global(app, router), nil
}
