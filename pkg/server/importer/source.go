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

package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

const (
	// DefaultSheetName is the sheet fetched when none is given
	DefaultSheetName = "Sheet1"
	// MaxUploadSize is the largest accepted spreadsheet upload
	MaxUploadSize = 10 << 20

	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FetchError is returned when a sheet export cannot be downloaded
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch sheet: %s", http.StatusText(e.StatusCode))
}

// UnsupportedTypeError is returned for an upload that is neither CSV nor XLSX
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %s", e.MIME)
}

// SheetSource downloads published Google Sheets as CSV
type SheetSource struct {
	BaseURL string
	Client  *http.Client
}

// URL returns the CSV export address of a sheet
func (s SheetSource) URL(sheetID, sheetName string) string {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		strings.TrimSuffix(s.BaseURL, "/"), url.PathEscape(sheetID), url.QueryEscape(sheetName))
}

// Fetch downloads a sheet and projects it onto its header row
func (s SheetSource) Fetch(ctx context.Context, sheetID, sheetName string) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(sheetID, sheetName), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching sheet")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{StatusCode: res.StatusCode}
	}

	text, err := Decode(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading sheet")
	}

	return Parse(text)
}

// ReadUpload reads an uploaded CSV or XLSX file and projects it onto its
// header row. sheetName selects the worksheet of a workbook and defaults to
// the first one.
func ReadUpload(r io.Reader, sheetName string) ([]Row, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading upload")
	}

	mt := mimetype.Detect(b)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is(mimeXLSX):
			rows, err := readXLSX(bytes.NewReader(b), sheetName)
			if err != nil {
				return nil, err
			}
			return projectChecked(rows)
		case m.Is("text/csv"), m.Is("text/plain"):
			text, err := Decode(bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			return Parse(text)
		}
	}

	return nil, &UnsupportedTypeError{MIME: mt.String()}
}
