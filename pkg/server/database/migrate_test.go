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
	"io/fs"
	"testing"
	"testing/fstest"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// errorFS returns an error on ReadDir
type errorFS struct{}

func (e errorFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (e errorFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return nil, fs.ErrPermission
}

func openMemoryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	return db
}

func upMigration(sql string) *fstest.MapFile {
	return &fstest.MapFile{
		Data: []byte("-- +migrate Up\n" + sql),
	}
}

func TestMigrate_createsMigrationTable(t *testing.T) {
	db := openMemoryDB(t)

	if err := migrate(db, fstest.MapFS{}); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM " + MigrationTableName).Scan(&count).Error; err != nil {
		t.Fatalf("migration table not found: %v", err)
	}
}

func TestMigrate_idempotency(t *testing.T) {
	db := openMemoryDB(t)

	if err := db.Exec("CREATE TABLE counter (value INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	migrationsFs := fstest.MapFS{
		"001-insert-data.sql": upMigration("INSERT INTO counter (value) VALUES (100);"),
	}

	if err := migrate(db, migrationsFs); err != nil {
		t.Fatalf("first migration failed: %v", err)
	}
	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM counter").Scan(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	// Run migration second time - it should not run the SQL again
	if err := migrate(db, migrationsFs); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	if err := db.Raw("SELECT COUNT(*) FROM counter").Scan(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("migration ran twice: expected 1 row, got %d", count)
	}
}

func TestMigrate_ordering(t *testing.T) {
	db := openMemoryDB(t)

	if err := db.Exec("CREATE TABLE log (value INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	migrationsFs := fstest.MapFS{
		"010-tenth.sql":  upMigration("INSERT INTO log (value) VALUES (3);"),
		"001-first.sql":  upMigration("INSERT INTO log (value) VALUES (1);"),
		"002-second.sql": upMigration("INSERT INTO log (value) VALUES (2);"),
	}

	if err := migrate(db, migrationsFs); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var values []int
	if err := db.Raw("SELECT value FROM log ORDER BY rowid").Scan(&values).Error; err != nil {
		t.Fatalf("failed to query log: %v", err)
	}

	expected := []int{1, 2, 3}
	if len(values) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(values))
	}

	for i, v := range values {
		if v != expected[i] {
			t.Errorf("row %d: expected value %d, got %d", i, expected[i], v)
		}
	}
}

func TestMigrate_duplicateVersion(t *testing.T) {
	db := openMemoryDB(t)

	migrationsFs := fstest.MapFS{
		"001-first.sql":  upMigration("SELECT 1;"),
		"001-second.sql": upMigration("SELECT 2;"),
	}

	if err := migrate(db, migrationsFs); err == nil {
		t.Fatal("expected error for duplicate version numbers, got nil")
	}
}

func TestMigrate_closedConnection(t *testing.T) {
	db := openMemoryDB(t)

	sqlDB, _ := db.DB()
	sqlDB.Close()

	migrationsFs := fstest.MapFS{
		"001-init.sql": upMigration("SELECT 1;"),
	}

	if err := migrate(db, migrationsFs); err == nil {
		t.Fatal("expected error for a closed connection, got nil")
	}
}

func TestMigrate_readDirError(t *testing.T) {
	db := openMemoryDB(t)

	if err := migrate(db, errorFS{}); err == nil {
		t.Fatal("expected error for ReadDir failure, got nil")
	}
}

func TestMigrate_sqlError(t *testing.T) {
	db := openMemoryDB(t)

	migrationsFs := fstest.MapFS{
		"001-bad-sql.sql": upMigration("INVALID SQL SYNTAX HERE;"),
	}

	if err := migrate(db, migrationsFs); err == nil {
		t.Fatal("expected error for invalid SQL, got nil")
	}
}

func TestMigrate_emptyFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"completely empty", "", true},
		{"only whitespace", "   \n\t  ", true},
		{"missing annotation", "SELECT 1;", true},
		{"only comments", "-- +migrate Up\n-- just a comment", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openMemoryDB(t)

			migrationsFs := fstest.MapFS{
				"001-empty.sql": &fstest.MapFile{
					Data: []byte(tt.data),
				},
			}

			err := migrate(db, migrationsFs)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMigrate_invalidFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"valid format", "001-init.sql", false},
		{"no leading zeros", "1-init.sql", true},
		{"two digits", "01-init.sql", true},
		{"no dash", "001init.sql", true},
		{"no description", "001-.sql", true},
		{"no extension", "001-init.", true},
		{"wrong extension", "001-init.txt", true},
		{"non-numeric version number", "0a1-init.sql", true},
		{"underscore separator", "001_init.sql", true},
		{"multiple dashes in description", "001-add-feature-v2.sql", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openMemoryDB(t)

			migrationsFs := fstest.MapFS{
				tt.filename: upMigration("SELECT 1;"),
			}

			err := migrate(db, migrationsFs)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMigrate_embedded(t *testing.T) {
	db := openMemoryDB(t)
	InitSchema(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", "idx_books_user_lower_title_author").Scan(&count).Error; err != nil {
		t.Fatalf("querying indexes: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the title/author index to exist, got %d", count)
	}
}
