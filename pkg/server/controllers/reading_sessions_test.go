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
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/presenters"
	"github.com/pagemark/pagemark/pkg/server/testutils"
)

func TestGetReadingSessions(t *testing.T) {
	server, db, _ := setupServer(t, nil)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	anotherUser := testutils.SetupUserData(db, "bob@example.com", "pass1234")

	book := testutils.SetupBookData(db, user, database.Book{})
	older := testutils.SetupReadingSessionData(db, book, database.ReadingSession{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), PagesRead: 10})
	newer := testutils.SetupReadingSessionData(db, book, database.ReadingSession{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), PagesRead: 20})
	foreignBook := testutils.SetupBookData(db, anotherUser, database.Book{})
	testutils.SetupReadingSessionData(db, foreignBook, database.ReadingSession{PagesRead: 30})

	req := testutils.MakeReq(server.URL, "GET", "/api/v1/reading-sessions", "")
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload []presenters.ReadingSession
	testutils.MustDecodeJSON(t, res, &payload)

	assert.Equal(t, len(payload), 2, "session count mismatch")
	assert.Equal(t, payload[0].UUID, newer.UUID, "sessions should be newest first")
	assert.Equal(t, payload[1].UUID, older.UUID, "sessions should be newest first")
	assert.Equal(t, payload[1].BookUUID, book.UUID, "book uuid mismatch")
}

func TestGetBookReadingSessions(t *testing.T) {
	server, db, _ := setupServer(t, nil)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	book := testutils.SetupBookData(db, user, database.Book{})
	other := testutils.SetupBookData(db, user, database.Book{Title: "Dune"})
	later := testutils.SetupReadingSessionData(db, book, database.ReadingSession{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)})
	earlier := testutils.SetupReadingSessionData(db, book, database.ReadingSession{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	testutils.SetupReadingSessionData(db, other, database.ReadingSession{})

	t.Run("existing book", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/v1/reading-sessions/book/%s", book.UUID), "")
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var payload []presenters.ReadingSession
		testutils.MustDecodeJSON(t, res, &payload)

		assert.Equal(t, len(payload), 2, "session count mismatch")
		assert.Equal(t, payload[0].UUID, earlier.UUID, "sessions should be earliest first")
		assert.Equal(t, payload[1].UUID, later.UUID, "sessions should be earliest first")
	})

	t.Run("missing book", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/v1/reading-sessions/book/%s", testutils.MustUUID(t)), "")
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})
}

func TestCreateReadingSession(t *testing.T) {
	server, db, _ := setupServer(t, nil)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	book := testutils.SetupBookData(db, user, database.Book{PageCount: 300})

	dat := fmt.Sprintf(`{"book_uuid": "%s", "date": "2024-03-01T00:00:00Z", "pages_read": 25, "duration": 1800}`, book.UUID)
	req := testutils.MakeReq(server.URL, "POST", "/api/v1/reading-sessions", dat)
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusCreated, "")

	var payload presenters.ReadingSession
	testutils.MustDecodeJSON(t, res, &payload)

	var s database.ReadingSession
	testutils.MustExec(t, db.Where("uuid = ?", payload.UUID).First(&s), "finding session")
	assert.Equal(t, s.BookUUID, book.UUID, "book uuid mismatch")
	assert.Equal(t, *s.UserID, user.ID, "owner mismatch")
	assert.Equal(t, s.PagesRead, 25, "pages read mismatch")
	assert.Equal(t, s.Duration, 1800, "duration mismatch")
	assert.Equal(t, s.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), true, "date mismatch")
}

func TestCreateReadingSession_invalid(t *testing.T) {
	server, db, _ := setupServer(t, nil)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	anotherUser := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	book := testutils.SetupBookData(db, user, database.Book{})
	foreign := testutils.SetupBookData(db, anotherUser, database.Book{})

	testCases := []struct {
		name string
		data string
	}{
		{"missing book", `{"pages_read": 10}`},
		{"malformed book uuid", `{"book_uuid": "not-a-uuid", "pages_read": 10}`},
		{"unknown book", fmt.Sprintf(`{"book_uuid": "%s"}`, testutils.MustUUID(t))},
		{"another user's book", fmt.Sprintf(`{"book_uuid": "%s"}`, foreign.UUID)},
		{"negative pages", fmt.Sprintf(`{"book_uuid": "%s", "pages_read": -5}`, book.UUID)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "POST", "/api/v1/reading-sessions", tc.data)
			res := testutils.HTTPAuthDo(t, db, req, user)

			assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")

			var count int64
			testutils.MustExec(t, db.Model(&database.ReadingSession{}).Count(&count), "counting sessions")
			assert.Equal(t, count, int64(0), "session count mismatch")
		})
	}
}

func TestGetReadingSession(t *testing.T) {
	server, db, _ := setupServer(t, nil)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	anotherUser := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	s := testutils.SetupReadingSessionData(db, testutils.SetupBookData(db, user, database.Book{}), database.ReadingSession{PagesRead: 12})
	foreign := testutils.SetupReadingSessionData(db, testutils.SetupBookData(db, anotherUser, database.Book{}), database.ReadingSession{})

	testCases := []struct {
		uuid     string
		expected int
	}{
		{s.UUID, http.StatusOK},
		{foreign.UUID, http.StatusNotFound},
		{testutils.MustUUID(t), http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.uuid, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/v1/reading-sessions/%s", tc.uuid), "")
			res := testutils.HTTPAuthDo(t, db, req, user)

			assert.StatusCodeEquals(t, res, tc.expected, "")
		})
	}
}

func TestUpdateReadingSession(t *testing.T) {
	server, db, _ := setupServer(t, nil)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	book := testutils.SetupBookData(db, user, database.Book{})
	other := testutils.SetupBookData(db, user, database.Book{Title: "Dune"})
	s := testutils.SetupReadingSessionData(db, book, database.ReadingSession{PagesRead: 12, Duration: 600})

	t.Run("partial update", func(t *testing.T) {
		dat := fmt.Sprintf(`{"pages_read": 30, "book_uuid": "%s"}`, other.UUID)
		req := testutils.MakeReq(server.URL, "PATCH", fmt.Sprintf("/api/v1/reading-sessions/%s", s.UUID), dat)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var stored database.ReadingSession
		testutils.MustExec(t, db.Where("uuid = ?", s.UUID).First(&stored), "finding session")
		assert.Equal(t, stored.PagesRead, 30, "pages read mismatch")
		assert.Equal(t, stored.BookUUID, other.UUID, "book uuid mismatch")
		assert.Equal(t, stored.Duration, 600, "duration should be unchanged")
	})

	t.Run("unknown book", func(t *testing.T) {
		dat := fmt.Sprintf(`{"book_uuid": "%s"}`, testutils.MustUUID(t))
		req := testutils.MakeReq(server.URL, "PUT", fmt.Sprintf("/api/v1/reading-sessions/%s", s.UUID), dat)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
	})

	t.Run("missing session", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "PATCH", fmt.Sprintf("/api/v1/reading-sessions/%s", testutils.MustUUID(t)), `{"pages_read": 1}`)
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})
}

func TestDeleteReadingSession(t *testing.T) {
	server, db, _ := setupServer(t, nil)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	s := testutils.SetupReadingSessionData(db, testutils.SetupBookData(db, user, database.Book{}), database.ReadingSession{})

	req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/reading-sessions/%s", s.UUID), "")
	res := testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	assert.EqualJSON(t, readBody(t, res), "true", "body mismatch")

	req = testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/reading-sessions/%s", s.UUID), "")
	res = testutils.HTTPAuthDo(t, db, req, user)

	assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	assert.EqualJSON(t, readBody(t, res), "false", "body mismatch")
}
