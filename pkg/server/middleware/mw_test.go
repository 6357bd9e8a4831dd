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
	"net/http/httptest"
	"testing"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pagemark/pagemark/pkg/server/app"
)

func TestLogging(t *testing.T) {
	t.Run("records status and request id", func(t *testing.T) {
		h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, w.Code, http.StatusTeapot, "status mismatch")
		assert.Equal(t, w.Header().Get(RequestIDHeader), "req-1", "request id mismatch")
	})

	t.Run("generates request id", func(t *testing.T) {
		h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, w.Code, http.StatusOK, "status mismatch")
		assert.NotEqual(t, w.Header().Get(RequestIDHeader), "", "request id should be set")
	})

	t.Run("recovers from panic", func(t *testing.T) {
		h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, w.Code, http.StatusInternalServerError, "status mismatch")
	})
}

func TestGlobal_cors(t *testing.T) {
	a := app.NewTest()
	a.WebURL = "http://books.example.com"

	h := Global(&a, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("api preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/books", nil)
		req.Header.Set("Origin", "http://books.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "http://books.example.com", "allowed origin mismatch")
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/books", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "", "foreign origin should not be allowed")
	})

	t.Run("web routes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/login", nil)
		req.Header.Set("Origin", "http://books.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, w.Code, http.StatusOK, "status mismatch")
		assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "", "web routes should not get cors headers")
	})
}

func TestWebMw_csrf(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("rejects form post without token", func(t *testing.T) {
		a := app.NewTest()
		a.CSRFKey = []byte("0123456789abcdef0123456789abcdef")

		w := httptest.NewRecorder()
		WebMw(handler, &a, false).ServeHTTP(w, httptest.NewRequest("POST", "/login", nil))

		assert.Equal(t, w.Code, http.StatusForbidden, "status mismatch")
	})

	t.Run("allows safe methods", func(t *testing.T) {
		a := app.NewTest()
		a.CSRFKey = []byte("0123456789abcdef0123456789abcdef")

		w := httptest.NewRecorder()
		WebMw(handler, &a, false).ServeHTTP(w, httptest.NewRequest("GET", "/login", nil))

		assert.Equal(t, w.Code, http.StatusOK, "status mismatch")
	})

	t.Run("disabled without key", func(t *testing.T) {
		a := app.NewTest()

		w := httptest.NewRecorder()
		WebMw(handler, &a, false).ServeHTTP(w, httptest.NewRequest("POST", "/login", nil))

		assert.Equal(t, w.Code, http.StatusOK, "status mismatch")
	})
}
