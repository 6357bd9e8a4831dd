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
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/log"
	"github.com/pagemark/pagemark/pkg/server/token"
	"github.com/pagemark/pagemark/pkg/server/views"
)

const (
	oauthStateCookieName = "oauth_state"
	oauthStateTTL        = 10 * time.Minute
)

// NewGitHub creates a new GitHub controller. Errors are rendered on the
// given view.
func NewGitHub(app *app.App, loginView *views.View) *GitHub {
	return &GitHub{
		LoginView: loginView,
		app:       app,
	}
}

// GitHub is a controller for signing in with GitHub
type GitHub struct {
	LoginView *views.View
	app       *app.App
}

// Start redirects the user to the GitHub consent page
func (g *GitHub) Start(w http.ResponseWriter, r *http.Request) {
	var vd views.Data

	state, err := token.State()
	if err != nil {
		handleHTMLError(w, r, err, "generating oauth state", g.LoginView, vd)
		return
	}

	dest, err := g.app.GitHubAuthCodeURL(state)
	if err != nil {
		handleHTMLError(w, r, err, "getting auth code url", g.LoginView, vd)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/auth/github",
		Expires:  g.app.Clock.Now().Add(oauthStateTTL),
		HttpOnly: true,
		Secure:   g.app.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, dest, http.StatusFound)
}

func validState(r *http.Request) bool {
	c, err := r.Cookie(oauthStateCookieName)
	if err != nil || c.Value == "" {
		return false
	}

	got := r.URL.Query().Get("state")

	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(got)) == 1
}

// Callback completes the GitHub sign in
func (g *GitHub) Callback(w http.ResponseWriter, r *http.Request) {
	var vd views.Data

	if !validState(r) {
		handleHTMLError(w, r, app.ErrInvalidOAuthState, "verifying oauth state", g.LoginView, vd)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/auth/github",
		MaxAge:   -1,
		HttpOnly: true,
	})

	profile, err := g.app.FetchGitHubProfile(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		handleHTMLError(w, r, err, "fetching GitHub profile", g.LoginView, vd)
		return
	}

	user, session, err := g.app.SignInWithGitHub(profile, sessionMeta(r))
	if err != nil {
		handleHTMLError(w, r, err, "signing in with GitHub", g.LoginView, vd)
		return
	}

	log.WithFields(log.Fields{
		"user_uuid": user.UUID,
		"github_id": profile.ID,
	}).Info("signed in with GitHub")

	setSessionCookie(w, session.Key, session.ExpiresAt)
	http.Redirect(w, r, "/", http.StatusFound)
}
