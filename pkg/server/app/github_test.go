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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/testutils"
	"golang.org/x/oauth2"
)

func newGitHubServer(t *testing.T, emails []map[string]interface{}) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "gho_test",
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gho_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		testutils.MustRespondJSON(t, w, map[string]interface{}{
			"id":    4242,
			"login": "octoreader",
			"name":  "Octo Reader",
		}, "responding user")
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		testutils.MustRespondJSON(t, w, emails, "responding emails")
	})

	return httptest.NewServer(mux)
}

func newGitHubApp(srv *httptest.Server) App {
	a := NewTest()
	a.GitHub = &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/login/oauth/authorize",
			TokenURL: srv.URL + "/login/oauth/access_token",
		},
	}
	a.GitHubAPIURL = srv.URL

	return a
}

func TestNewGitHubOAuthConfig(t *testing.T) {
	assert.Equal(t, NewGitHubOAuthConfig("", "secret", "http://localhost:3001") == nil, true, "missing id should disable")
	assert.Equal(t, NewGitHubOAuthConfig("id", "", "http://localhost:3001") == nil, true, "missing secret should disable")

	c := NewGitHubOAuthConfig("id", "secret", "http://localhost:3001/")
	assert.Equal(t, c.RedirectURL, "http://localhost:3001/auth/github/callback", "redirect url mismatch")
}

func TestFetchGitHubProfile(t *testing.T) {
	t.Run("verified primary email", func(t *testing.T) {
		srv := newGitHubServer(t, []map[string]interface{}{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "reader@example.com", "primary": true, "verified": true},
		})
		defer srv.Close()

		a := newGitHubApp(srv)
		profile, err := a.FetchGitHubProfile(context.Background(), "code")
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, profile.ID, int64(4242), "id mismatch")
		assert.Equal(t, profile.Login, "octoreader", "login mismatch")
		assert.Equal(t, profile.Email, "reader@example.com", "email mismatch")
	})

	t.Run("unverified primary email", func(t *testing.T) {
		srv := newGitHubServer(t, []map[string]interface{}{
			{"email": "reader@example.com", "primary": true, "verified": false},
		})
		defer srv.Close()

		a := newGitHubApp(srv)
		_, err := a.FetchGitHubProfile(context.Background(), "code")
		assert.Equal(t, err, ErrGitHubEmailUnverified, "error mismatch")
	})

	t.Run("not configured", func(t *testing.T) {
		a := NewTest()
		_, err := a.FetchGitHubProfile(context.Background(), "code")
		assert.Equal(t, err, ErrGitHubNotConfigured, "error mismatch")
	})
}

func TestSignInWithGitHub(t *testing.T) {
	profile := GitHubProfile{ID: 7, Login: "octoreader", Email: "Reader@Example.com"}

	t.Run("creates a user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := NewTest()
		a.DB = db

		user, session, err := a.SignInWithGitHub(profile, SessionMeta{})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, user.Email.String, "reader@example.com", "email mismatch")
		assert.Equal(t, user.Name, "octoreader", "name should fall back to login")
		assert.Equal(t, *user.GitHubID, int64(7), "github id mismatch")
		assert.Equal(t, session.UserID, user.ID, "session owner mismatch")

		again, _, err := a.SignInWithGitHub(profile, SessionMeta{})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, again.ID, user.ID, "second sign in should reuse the user")

		var count int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
		assert.Equal(t, count, int64(1), "user count mismatch")
	})

	t.Run("links an existing user by email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		existing := testutils.SetupUserData(db, "reader@example.com", "pass1234")
		a := NewTest()
		a.DB = db

		user, _, err := a.SignInWithGitHub(profile, SessionMeta{})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, user.ID, existing.ID, "user mismatch")
	})

	t.Run("registration disabled", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := NewTest()
		a.DB = db
		a.DisableRegistration = true

		_, _, err := a.SignInWithGitHub(profile, SessionMeta{})
		assert.Equal(t, err, ErrRegistrationDisabled, "error mismatch")
	})
}
