// Package importer provides tests for ledger merge functionality.
package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/db"
	"github.com/VoxDroid/themr/internal/history"
)

func seedLedger(t *testing.T, root string, versions ...string) {
	t.Helper()
	conn, err := db.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = conn.Close() }()
	repo := history.NewRepository(conn)
	for _, v := range versions {
		if _, err := repo.Record(history.Entry{OldVersion: "0.0.0", NewVersion: v, BumpKind: "fix"}); err != nil {
			t.Fatalf("Record %s: %v", v, err)
		}
	}
}

func TestMergeDatabaseSkipsKnownRows(t *testing.T) {
	t.Setenv(config.EnvThemrDB, "")
	srcRoot := t.TempDir()
	seedLedger(t, srcRoot, "1.0.1", "1.0.2")

	dstRoot := t.TempDir()
	conn, err := db.Open(dstRoot)
	if err != nil {
		t.Fatalf("Open dst: %v", err)
	}
	defer func() { _ = conn.Close() }()
	repo := history.NewRepository(conn)

	n, err := MergeDatabase(repo, config.DBPath(srcRoot))
	if err != nil {
		t.Fatalf("MergeDatabase: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d rows, want 2", n)
	}

	// Second merge finds every UID already present.
	n, err = MergeDatabase(repo, config.DBPath(srcRoot))
	if err != nil {
		t.Fatalf("MergeDatabase again: %v", err)
	}
	if n != 0 {
		t.Fatalf("re-import brought %d rows, want 0", n)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}
}

func TestImportDatabaseRefusesOverwrite(t *testing.T) {
	t.Setenv(config.EnvThemrDB, "")
	srcRoot := t.TempDir()
	seedLedger(t, srcRoot, "1.0.1")

	dstRoot := t.TempDir()
	seedLedger(t, dstRoot, "2.0.0")

	err := ImportDatabase(dstRoot, config.DBPath(srcRoot), false)
	if err == nil {
		t.Fatal("expected refusal without overwrite")
	}

	if err := ImportDatabase(dstRoot, config.DBPath(srcRoot), true); err != nil {
		t.Fatalf("ImportDatabase overwrite: %v", err)
	}

	conn, err := db.Open(dstRoot)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = conn.Close() }()
	latest, err := history.NewRepository(conn).Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.NewVersion != "1.0.1" {
		t.Fatalf("latest = %s, want replaced ledger", latest.NewVersion)
	}
}

func TestImportDatabaseMissingSource(t *testing.T) {
	t.Setenv(config.EnvThemrDB, "")
	err := ImportDatabase(t.TempDir(), filepath.Join(t.TempDir(), "nope.db"), true)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !os.IsNotExist(errUnwrapAll(err)) {
		t.Fatalf("err = %v", err)
	}
}

func errUnwrapAll(err error) error {
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}
