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

package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/csrf"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/rs/cors"
)

// Middleware wraps a route handler
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// WebMw is the middleware for the web routes. Form posts are protected
// against CSRF when the app carries a CSRF key.
func WebMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	ret := ApplyLimit(h, rateLimit && a.AppEnv != "TEST")

	if len(a.CSRFKey) == 0 {
		return ret
	}

	protect := csrf.Protect(a.CSRFKey,
		csrf.Secure(a.IsProd()),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)(ret)

	plaintext := strings.HasPrefix(a.WebURL, "http://")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if plaintext {
			r = csrf.PlaintextHTTPRequest(r)
		}

		protect.ServeHTTP(w, r)
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	DoError(w, "csrf validation", csrf.FailureReason(r), http.StatusForbidden)
}

// APIMw is the middleware for the API routes
func APIMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(h, rateLimit && a.AppEnv != "TEST")
}

func newCORS(webURL string) *cors.Cors {
	origins := []string{}
	if u, err := url.Parse(webURL); err == nil && u.Host != "" {
		origins = append(origins, u.Scheme+"://"+u.Host)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
}

// Global is the middleware applied to every request. API requests get
// CORS handling.
func Global(a *app.App, h http.Handler) http.Handler {
	api := newCORS(a.WebURL).Handler(h)

	routed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			api.ServeHTTP(w, r)
			return
		}

		h.ServeHTTP(w, r)
	})

	return Logging(gziphandler.GzipHandler(routed))
}
