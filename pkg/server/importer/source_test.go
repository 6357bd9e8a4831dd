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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pagemark/pagemark/pkg/assert"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

func TestSheetSourceURL(t *testing.T) {
	s := SheetSource{BaseURL: "https://docs.google.com/"}

	assert.Equal(t, s.URL("abc123", ""),
		"https://docs.google.com/spreadsheets/d/abc123/gviz/tq?tqx=out:csv&sheet=Sheet1", "default sheet mismatch")
	assert.Equal(t, s.URL("abc123", "Reading Log"),
		"https://docs.google.com/spreadsheets/d/abc123/gviz/tq?tqx=out:csv&sheet=Reading+Log", "sheet name mismatch")
}

func TestSheetSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tqx") != "out:csv" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch r.URL.Path {
		case "/spreadsheets/d/books/gviz/tq":
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte("\xef\xbb\xbf\"Title\",\"Author\"\r\n\"Dune\",\"Frank Herbert\"\r\n"))
		case "/spreadsheets/d/empty/gviz/tq":
			w.Write([]byte("\"Title\",\"Author\"\r\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := SheetSource{BaseURL: srv.URL, Client: srv.Client()}

	t.Run("success", func(t *testing.T) {
		rows, err := s.Fetch(context.Background(), "books", "")
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, len(rows), 1, "row count mismatch")
		assert.Equal(t, rows[0].Get("title"), "Dune", "bom should be stripped from the header")
	})

	t.Run("insufficient data", func(t *testing.T) {
		_, err := s.Fetch(context.Background(), "empty", "")
		assert.Equal(t, err, error(ErrInsufficientData), "error mismatch")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Fetch(context.Background(), "missing", "")

		var ferr *FetchError
		if !errors.As(err, &ferr) {
			t.Fatalf("expected a fetch error, got %v", err)
		}
		assert.Equal(t, ferr.StatusCode, http.StatusNotFound, "status mismatch")
		assert.Equal(t, ferr.Error(), "failed to fetch sheet: Not Found", "message mismatch")
	})
}

func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func TestReadUpload(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		rows, err := ReadUpload(strings.NewReader("title,author,format,pagecount\nDune,Frank Herbert,Paperback,412\n"), "")
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, len(rows), 1, "row count mismatch")
		assert.Equal(t, rows[0].Get("pagecount"), "412", "value mismatch")
	})

	t.Run("xlsx", func(t *testing.T) {
		b := buildWorkbook(t, "Books", [][]interface{}{
			{"Title", "Author", "Format", "PageCount"},
			{" Dune ", "Frank Herbert", "Paperback", 412},
			{"", "ignored"},
		})

		rows, err := ReadUpload(bytes.NewReader(b), "")
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, len(rows), 1, "row count mismatch")
		assert.Equal(t, rows[0].Get("title"), "Dune", "value should be trimmed")
		assert.Equal(t, rows[0].Get("pagecount"), "412", "value mismatch")
	})

	t.Run("xlsx named sheet", func(t *testing.T) {
		b := buildWorkbook(t, "Books", [][]interface{}{
			{"Title", "Author"},
			{"Dune", "Frank Herbert"},
		})

		_, err := ReadUpload(bytes.NewReader(b), "Books")
		assert.Equal(t, err, nil, "named sheet should be read")

		_, err = ReadUpload(bytes.NewReader(b), "Sessions")
		var verr *ValidationError
		assert.Equal(t, errors.As(err, &verr), true, "missing sheet should be a validation error")
	})

	t.Run("unsupported", func(t *testing.T) {
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
		_, err := ReadUpload(bytes.NewReader(png), "")

		var uerr *UnsupportedTypeError
		if !errors.As(err, &uerr) {
			t.Fatalf("expected an unsupported type error, got %v", err)
		}
		assert.Equal(t, uerr.MIME, "image/png", "mime mismatch")
	})
}
