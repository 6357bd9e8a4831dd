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
	"strings"
	"testing"
	"time"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/testutils"
)

func TestNotFound(t *testing.T) {
	server, _, _ := setupServer(t, nil)

	testCases := []struct {
		path        string
		accept      string
		contentType string
	}{
		{"/api/v1/notes", "", "application/json"},
		{"/api/v2/books", "text/html", "application/json"},
		{"/nowhere", "text/html", "text/html; charset=utf-8"},
		{"/nowhere", "", "text/plain; charset=utf-8"},
	}

	for _, tc := range testCases {
		t.Run(tc.path+" "+tc.accept, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "GET", tc.path, "")
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
			assert.Equal(t, res.Header.Get("Content-Type"), tc.contentType, "content type mismatch")
		})
	}
}

func TestHealth(t *testing.T) {
	server, _, _ := setupServer(t, nil)

	req := testutils.MakeReq(server.URL, "GET", "/health", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	assert.Equal(t, readBody(t, res), "ok", "body mismatch")
}

func TestMetrics(t *testing.T) {
	server, _, _ := setupServer(t, nil)

	// a served request is counted
	testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/health", ""))

	req := testutils.MakeReq(server.URL, "GET", "/metrics", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	body := readBody(t, res)
	assert.Equal(t, strings.Contains(body, "pagemark_http_requests_total"), true, "request counter should be exported")
}

func TestRobots(t *testing.T) {
	server, _, _ := setupServer(t, nil)

	req := testutils.MakeReq(server.URL, "GET", "/robots.txt", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	assert.Equal(t, strings.Contains(readBody(t, res), "Disallow: /api/"), true, "body mismatch")
}

func TestAPICORS(t *testing.T) {
	server, _, a := setupServer(t, nil)

	req := testutils.MakeReq(server.URL, "OPTIONS", "/api/v1/books", "")
	req.Header.Set("Origin", a.WebURL)
	req.Header.Set("Access-Control-Request-Method", "POST")
	res := testutils.HTTPDo(t, req)

	assert.Equal(t, res.Header.Get("Access-Control-Allow-Origin"), a.WebURL, "allowed origin mismatch")
	assert.Equal(t, res.Header.Get("Access-Control-Allow-Credentials"), "true", "credentials mismatch")
}

func TestDashboard(t *testing.T) {
	t.Run("guest", func(t *testing.T) {
		server, _, _ := setupServer(t, nil)

		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusFound, "")
		assert.Equal(t, strings.HasPrefix(res.Header.Get("Location"), "/login"), true, "guest should be sent to login")
	})

	t.Run("signed in", func(t *testing.T) {
		server, db, _ := setupServer(t, nil)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		book := testutils.SetupBookData(db, user, database.Book{Title: "Piranesi", Author: "Susanna Clarke", PageCount: 200})
		testutils.SetupReadingSessionData(db, book, database.ReadingSession{
			Date:      time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
			PagesRead: 50,
			Duration:  3600,
		})
		testutils.SetupBookData(db, user, database.Book{Title: "Unstarted Novel"})

		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")
		body := readBody(t, res)
		assert.Equal(t, strings.Contains(body, "Piranesi"), true, "currently reading book should be listed")
		assert.Equal(t, strings.Contains(body, "25%"), true, "percent complete should be shown")
		assert.Equal(t, strings.Contains(body, "Unstarted Novel"), false, "unstarted book should not be listed")
	})
}
