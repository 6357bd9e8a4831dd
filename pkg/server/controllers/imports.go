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
	"context"
	"net/http"

	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/importer"
	"github.com/pagemark/pagemark/pkg/server/presenters"
	"github.com/pagemark/pagemark/pkg/server/validate"
	"github.com/pkg/errors"
)

const (
	importTypeBooks    = "books"
	importTypeSessions = "sessions"
)

// NewImports creates a new Imports controller
func NewImports(app *app.App) *Imports {
	return &Imports{
		app:      app,
		importer: importer.New(app),
		sheets: importer.SheetSource{
			BaseURL: app.SheetsBaseURL,
			Client:  app.HTTPClient,
		},
	}
}

// Imports is a controller for spreadsheet imports
type Imports struct {
	app      *app.App
	importer *importer.Importer
	sheets   importer.SheetSource
}

func (i *Imports) run(ctx context.Context, user database.User, kind string, rows []importer.Row) (presenters.ImportResult, error) {
	switch kind {
	case importTypeBooks:
		res, err := i.importer.ImportBooks(ctx, user, rows)
		if err != nil {
			return presenters.ImportResult{}, err
		}
		return presenters.PresentBookImport(res), nil
	case importTypeSessions:
		res, err := i.importer.ImportSessions(ctx, user, rows)
		if err != nil {
			return presenters.ImportResult{}, err
		}
		return presenters.PresentSessionImport(res), nil
	}

	return presenters.ImportResult{}, newBadRequestError("type must be books or sessions")
}

type importSheetsPayload struct {
	SheetID   string `json:"sheet_id" validate:"required"`
	SheetName string `json:"sheet_name"`
	Type      string `json:"type" validate:"required,oneof=books sessions"`
}

// ImportSheets imports books or reading sessions from a published Google Sheet
func (i *Imports) ImportSheets(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	var payload importSheetsPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	rows, err := i.sheets.Fetch(r.Context(), payload.SheetID, payload.SheetName)
	if err != nil {
		handleJSONError(w, err, "fetching sheet")
		return
	}

	res, err := i.run(r.Context(), user, payload.Type, rows)
	if err != nil {
		handleJSONError(w, err, "importing sheet")
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// ImportFile imports books or reading sessions from an uploaded CSV or XLSX file
func (i *Imports) ImportFile(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		handleJSONError(w, err, "getting user")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, importer.MaxUploadSize)
	if err := r.ParseMultipartForm(importer.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleJSONError(w, err, "parsing upload")
			return
		}

		handleJSONError(w, newBadRequestError("invalid multipart form"), "parsing upload")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	kind := r.FormValue("type")
	if kind != importTypeBooks && kind != importTypeSessions {
		handleJSONError(w, newBadRequestError("type must be books or sessions"), "validating payload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		handleJSONError(w, newBadRequestError("file is required"), "reading upload")
		return
	}
	defer file.Close()

	rows, err := importer.ReadUpload(file, r.FormValue("sheet_name"))
	if err != nil {
		handleJSONError(w, err, "reading upload")
		return
	}

	res, err := i.run(r.Context(), user, kind, rows)
	if err != nil {
		handleJSONError(w, err, "importing file")
		return
	}

	respondJSON(w, http.StatusOK, res)
}
