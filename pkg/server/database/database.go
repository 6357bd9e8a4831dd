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

package database

import (
	"os"
	"path/filepath"

	"github.com/pagemark/pagemark/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// MigrationTableName is the name of the table that keeps track of migrations
	MigrationTableName = "migrations"
)

// Params are the parameters for opening a database connection
type Params struct {
	// Path is the path to the SQLite database file
	Path string
	// URL is a postgres connection string. If set, it takes precedence over Path.
	URL      string
	LogLevel string
}

// getDBLogLevel maps the application log level to the gorm log level.
// Only debug surfaces the SQL statements.
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Book{},
		&ReadingSession{},
		&Session{},
	); err != nil {
		panic(err)
	}
}

func getDialector(p Params) (gorm.Dialector, error) {
	if p.URL != "" {
		return postgres.Open(p.URL), nil
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating database directory at %s", dir)
	}

	return sqlite.Open(p.Path), nil
}

// Open initializes the database connection
func Open(p Params) *gorm.DB {
	dialector, err := getDialector(p)
	if err != nil {
		panic(err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(p.LogLevel)),
	})
	if err != nil {
		panic(errors.Wrap(err, "opening database conection"))
	}

	if isSQLite(db) {
		if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			log.ErrorWrap(err, "enabling WAL journal mode")
		}
	}

	return db
}

func isSQLite(db *gorm.DB) bool {
	return db.Dialector.Name() == "sqlite"
}
