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
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/importer"
	"github.com/pagemark/pagemark/pkg/server/log"
	mw "github.com/pagemark/pagemark/pkg/server/middleware"
	"github.com/pagemark/pagemark/pkg/server/validate"
	"github.com/pagemark/pagemark/pkg/server/views"
	pkgErrors "github.com/pkg/errors"
)

const (
	sessionCookieName = "id"
	// genericErrorMessage is shown for errors that are not safe to expose
	genericErrorMessage = "internal server error"
)

// badRequestError is an error for a malformed request
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string {
	return e.msg
}

// Public returns the message that can be shown to users
func (e badRequestError) Public() string {
	return e.msg
}

func newBadRequestError(msg string) badRequestError {
	return badRequestError{msg: msg}
}

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return newBadRequestError("invalid form")
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return newBadRequestError("invalid form")
	}

	return nil
}

// parseRequestData decodes a JSON or form encoded request body into dst
func parseRequestData(r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		return parseForm(r, dst)
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return newBadRequestError("invalid json payload")
	}

	return nil
}

// getStatusCode maps an error to the status code of the response
func getStatusCode(err error) int {
	var validationErr *validate.Error
	var importErr *importer.ValidationError
	var notFoundErr *importer.NotFoundError
	var fetchErr *importer.FetchError
	var typeErr *importer.UnsupportedTypeError
	var badReqErr badRequestError
	var tooLargeErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &importErr),
		errors.As(err, &notFoundErr),
		errors.As(err, &fetchErr),
		errors.As(err, &typeErr),
		errors.As(err, &badReqErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	}

	switch pkgErrors.Cause(err) {
	case app.ErrNotFound:
		return http.StatusNotFound
	case app.ErrLoginInvalid, app.ErrLoginRequired:
		return http.StatusUnauthorized
	case app.ErrForbidden, app.ErrRegistrationDisabled:
		return http.StatusForbidden
	case app.ErrGitHubNotConfigured:
		return http.StatusNotFound
	case app.ErrDuplicateEmail,
		app.ErrEmailRequired,
		app.ErrEmailTooLong,
		app.ErrPasswordRequired,
		app.ErrPasswordTooShort,
		app.ErrPasswordConfirmationMismatch,
		app.ErrTitleRequired,
		app.ErrAuthorRequired,
		app.ErrBookUUIDRequired,
		app.ErrBookNotFound,
		app.ErrGitHubEmailUnverified,
		app.ErrInvalidOAuthState:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// publicMessage returns the message of the error that can be shown to users
func publicMessage(err error, statusCode int) string {
	switch statusCode {
	case http.StatusInternalServerError:
		return genericErrorMessage
	case http.StatusRequestEntityTooLarge:
		return "file is too large"
	}

	var pErr views.PublicError
	if errors.As(err, &pErr) {
		return pErr.Public()
	}

	var validationErr *validate.Error
	var importErr *importer.ValidationError
	var notFoundErr *importer.NotFoundError
	var fetchErr *importer.FetchError
	var typeErr *importer.UnsupportedTypeError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &importErr):
		return importErr.Error()
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case errors.As(err, &fetchErr):
		return fetchErr.Error()
	case errors.As(err, &typeErr):
		return typeErr.Error()
	}

	return pkgErrors.Cause(err).Error()
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleJSONError logs the error and responds with a JSON error body
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := getStatusCode(err)

	if statusCode == http.StatusInternalServerError {
		log.ErrorWrap(err, msg)
	} else {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
			"err":        err,
		}).Info(msg)
	}

	respondJSON(w, statusCode, errorResponse{Error: publicMessage(err, statusCode)})
}

// handleHTMLError renders the view with an alert describing the error
func handleHTMLError(w http.ResponseWriter, r *http.Request, err error, msg string, v *views.View, d views.Data) {
	statusCode := getStatusCode(err)
	if statusCode == http.StatusInternalServerError {
		log.ErrorWrap(err, msg)
	}

	d.SetAlert(err, v.AlertInBody)
	v.Render(w, r, &d, statusCode)
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

func setSessionCookie(w http.ResponseWriter, key string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    key,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func unsetSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
	})
}

// sessionMeta describes the client that made the request
func sessionMeta(r *http.Request) app.SessionMeta {
	return app.SessionMeta{
		IPAddress: mw.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}
