package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema SQL to the database and
// performs lightweight post-creation migrations (adding new columns when
// needed).
func ApplyMigrations(d *sql.DB) error {
	if _, err := d.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return ensureReleaseColumns(d)
}

// ensureReleaseColumns adds columns that did not exist in early ledgers so
// an old history.db keeps working after an upgrade.
func ensureReleaseColumns(d *sql.DB) error {
	rows, err := d.Query("PRAGMA table_info(releases)")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !cols["artifact"] {
		if _, err := d.Exec("ALTER TABLE releases ADD COLUMN artifact TEXT"); err != nil {
			return err
		}
	}
	if !cols["notes"] {
		if _, err := d.Exec("ALTER TABLE releases ADD COLUMN notes TEXT"); err != nil {
			return err
		}
	}
	return nil
}
