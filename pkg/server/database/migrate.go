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
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"

	"github.com/pagemark/pagemark/pkg/server/database/migrations"
	"github.com/pagemark/pagemark/pkg/server/log"
	"github.com/pkg/errors"
	sqlmigrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

type migrationFile struct {
	filename string
	version  int
}

// validateMigrationFilename checks if filename follows format: NNN-description.sql
func validateMigrationFilename(name string) error {
	if !strings.HasSuffix(name, ".sql") {
		return errors.Errorf("invalid migration filename: must end with .sql")
	}

	name = strings.TrimSuffix(name, ".sql")
	parts := strings.SplitN(name, "-", 2)
	if len(parts) != 2 {
		return errors.Errorf("invalid migration filename: must be NNN-description.sql")
	}

	version, description := parts[0], parts[1]

	if len(version) != 3 {
		return errors.Errorf("invalid migration filename: version must be 3 digits, got %s", version)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return errors.Errorf("invalid migration filename: version must be numeric, got %s", version)
		}
	}

	if description == "" {
		return errors.Errorf("invalid migration filename: description is required")
	}

	return nil
}

// Migrate runs the migrations using the embedded migration files
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

// getMigrationFiles reads, validates, and sorts migration files
func getMigrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var files []migrationFile
	seen := make(map[int]string)
	for _, e := range entries {
		name := e.Name()

		if err := validateMigrationFilename(name); err != nil {
			return nil, err
		}

		var v int
		fmt.Sscanf(name, "%d", &v)

		if existing, found := seen[v]; found {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, existing, name)
		}
		seen[v] = name

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading migration file %s", name)
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			return nil, errors.Errorf("migration file %s is empty", name)
		}

		files = append(files, migrationFile{
			filename: name,
			version:  v,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].version < files[j].version
	})

	return files, nil
}

// migrateDialect returns the sql-migrate dialect name for the connection
func migrateDialect(db *gorm.DB) string {
	if isSQLite(db) {
		return "sqlite3"
	}

	return db.Dialector.Name()
}

// migrate runs migrations from the provided filesystem
func migrate(db *gorm.DB, fsys fs.FS) error {
	files, err := getMigrationFiles(fsys)
	if err != nil {
		return err
	}

	var filenames []string
	for _, m := range files {
		filenames = append(filenames, m.filename)
	}
	log.WithFields(log.Fields{
		"files": filenames,
	}).Debug("Database migration files.")

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the underlying connection")
	}

	ms := sqlmigrate.MigrationSet{TableName: MigrationTableName}
	src := sqlmigrate.HttpFileSystemMigrationSource{FileSystem: http.FS(fsys)}

	n, err := ms.Exec(sqlDB, migrateDialect(db), src, sqlmigrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	log.WithFields(log.Fields{
		"applied": n,
	}).Info("Database migrated.")

	return nil
}
