package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRejectBlobVersionInsert(t *testing.T) {
	d, err := sql.Open("sqlite", "file:test_blob?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = d.Close() }()
	if err := ApplyMigrations(d); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// A []byte param binds as a blob; the typeof trigger must refuse it.
	if _, err := d.Exec(
		"INSERT INTO releases (uid, old_version, new_version, bump_kind, created_at) VALUES (?, ?, ?, ?, datetime('now'))",
		"uid-blob", "1.0.0", []byte{0xff, 0xfe}, "fix",
	); err == nil {
		t.Fatalf("expected blob version insert to be rejected by trigger")
	}
}
