// store_test.go provides a shared test database helper for all store
// tests. Each test gets its own temp-file SQLite database with the
// current schema applied, so tests are independent and need no external
// services.
package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
)

// testDB opens a fresh SQLite database in the test's temp directory and
// runs migrations. The connection is closed when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store-test.db")
	db, err := database.Connect(path)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate test db: %v", err)
	}

	// Reset goose global state so other packages can set their own base FS.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}
