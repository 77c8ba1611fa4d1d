package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/VoxDroid/themr/internal/config"
)

// Open ensures the project's data directory exists, opens the release
// ledger database, and brings the schema up to date.
func Open(root string) (*sql.DB, error) {
	dbPath := config.DBPath(root)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	d, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := ApplyMigrations(d); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}
