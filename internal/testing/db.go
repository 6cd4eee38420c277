// Package testing provides testing utilities and helpers for the coinfolio project.
package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aristath/coinfolio/internal/database"
)

// NewTestDB creates a file-backed SQLite database in a temporary directory
// and applies the embedded schema registered for name.
// The database is closed when the test finishes.
//
// Schema names:
//   - database.NamePortfolio - holdings and asset_metadata
//   - database.NameCache - market_quotes
//   - Unknown names - empty database
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	profile := database.ProfileStandard
	if name == database.NameCache {
		profile = database.ProfileCache
	}

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), fmt.Sprintf("test_%s.db", name)),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	return db
}
