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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/pagemark/pagemark/pkg/clock"
	"github.com/pagemark/pagemark/pkg/prompt"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/config"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/token"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	httpClientTimeout = 30 * time.Second
	csrfKeyBytes      = 32
)

var (
	colorGreen = color.New(color.FgGreen)
	colorGray  = color.New(color.FgHiBlack)
)

// dbFlags are the flags shared by the commands that open the database
type dbFlags struct {
	configPath  string
	dbPath      string
	databaseURL string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&f.dbPath, "dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/pagemark/server.db)")
	cmd.Flags().StringVar(&f.databaseURL, "databaseUrl", "", "Postgres connection string, takes precedence over dbPath (env: DATABASE_URL)")
}

func (f dbFlags) params() config.Params {
	return config.Params{
		ConfigPath:  f.configPath,
		DBPath:      f.dbPath,
		DatabaseURL: f.databaseURL,
	}
}

func initDB(cfg config.Config) (*gorm.DB, error) {
	db := database.Open(database.Params{
		Path:     cfg.DBPath,
		URL:      cfg.DatabaseURL,
		LogLevel: cfg.LogLevel,
	})
	database.InitSchema(db)

	if err := database.Migrate(db); err != nil {
		closeDB(db)
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

func csrfKey(cfg config.Config) ([]byte, error) {
	if cfg.CSRFKey != "" {
		return []byte(cfg.CSRFKey), nil
	}

	// Forms rendered before a restart will fail the CSRF check after it.
	k, err := token.Generate(csrfKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "generating csrf key")
	}

	return []byte(k)[:csrfKeyBytes], nil
}

func initApp(cfg config.Config) (*app.App, error) {
	key, err := csrfKey(cfg)
	if err != nil {
		return nil, err
	}

	db, err := initDB(cfg)
	if err != nil {
		return nil, err
	}

	a := app.App{
		DB:                  db,
		Clock:               clock.New(),
		HTTP500Page:         cfg.HTTP500Page,
		AppEnv:              cfg.AppEnv,
		WebURL:              cfg.WebURL,
		DisableRegistration: cfg.DisableRegistration,
		Port:                cfg.Port,
		DBPath:              cfg.DBPath,
		AssetBaseURL:        cfg.AssetBaseURL,
		SheetsBaseURL:       cfg.SheetsBaseURL,
		HTTPClient:          &http.Client{Timeout: httpClientTimeout},
		CSRFKey:             key,
	}
	if cfg.GitHubEnabled() {
		a.GitHub = app.NewGitHubOAuthConfig(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.WebURL)
	}

	return &a, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// setupApp builds the config from the given params and opens the app.
// The returned cleanup closes the database.
func setupApp(p config.Params) (*app.App, func(), error) {
	cfg, err := config.New(p)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}

	a, err := initApp(cfg)
	if err != nil {
		return nil, nil, err
	}

	return a, func() { closeDB(a.DB) }, nil
}

func requireFlag(value, name string) error {
	if value == "" {
		return errors.Errorf("--%s is required", name)
	}

	return nil
}

func printSuccess(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", colorGreen.Sprint("✔"), fmt.Sprintf(format, a...))
}

func printDetail(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", colorGray.Sprintf("%s:", label), value)
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	ok, err := prompt.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question, false)
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return ok, nil
}
