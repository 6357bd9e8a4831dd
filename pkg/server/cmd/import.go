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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/importer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	importKindBooks    = "books"
	importKindSessions = "sessions"
)

type importOptions struct {
	db        dbFlags
	email     string
	file      string
	sheetID   string
	sheetName string
}

func (o importOptions) validate() error {
	if err := requireFlag(o.email, "email"); err != nil {
		return err
	}
	if o.file == "" && o.sheetID == "" {
		return errors.New("one of --file or --sheet-id is required")
	}
	if o.file != "" && o.sheetID != "" {
		return errors.New("--file and --sheet-id cannot be used together")
	}

	return nil
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:       "import books|sessions",
		Short:     "Import books or reading sessions from a CSV/XLSX file or a Google Sheet",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{importKindBooks, importKindSessions},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}

			return runImport(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.db.register(cmd)
	cmd.Flags().StringVar(&opts.email, "email", "", "Email of the user who owns the imported data (required)")
	cmd.Flags().StringVar(&opts.file, "file", "", "Path to a .csv or .xlsx file")
	cmd.Flags().StringVar(&opts.sheetID, "sheet-id", "", "Google Sheets document id")
	cmd.Flags().StringVar(&opts.sheetName, "sheet-name", "", "Sheet name (default: Sheet1 for Google Sheets, the first sheet for workbooks)")

	return cmd
}

func readRows(ctx context.Context, a *app.App, opts importOptions) ([]importer.Row, error) {
	if opts.sheetID != "" {
		src := importer.SheetSource{BaseURL: a.SheetsBaseURL, Client: a.HTTPClient}
		return src.Fetch(ctx, opts.sheetID, opts.sheetName)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	return importer.ReadUpload(f, opts.sheetName)
}

func runImport(ctx context.Context, out io.Writer, kind string, opts importOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, cleanup, err := setupApp(opts.db.params())
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.GetUserByEmail(opts.email)
	if err != nil {
		return userNotFound(opts.email, err)
	}

	rows, err := readRows(ctx, a, opts)
	if err != nil {
		return errors.Wrap(err, "reading rows")
	}

	imp := importer.New(a)

	switch kind {
	case importKindBooks:
		res, err := imp.ImportBooks(ctx, *user, rows)
		if err != nil {
			return errors.Wrap(err, "importing books")
		}

		printSuccess(out, "Imported %d books", res.Imported)
		for _, b := range res.Books {
			printDetail(out, "Book", bookLabel(b))
		}
	case importKindSessions:
		res, err := imp.ImportSessions(ctx, *user, rows)
		if err != nil {
			return errors.Wrap(err, "importing reading sessions")
		}

		printSuccess(out, "Imported %d reading sessions", res.Imported)
		if res.Failed > 0 {
			printDetail(out, "Failed", fmt.Sprintf("%d", res.Failed))
		}
	default:
		return errors.Errorf("unknown import kind %q", kind)
	}

	return nil
}

func bookLabel(b database.Book) string {
	return fmt.Sprintf("%s by %s", b.Title, b.Author)
}
