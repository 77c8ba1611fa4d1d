package exporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/db"
	"github.com/VoxDroid/themr/internal/history"
)

func TestExportDatabase(t *testing.T) {
	root := t.TempDir()
	t.Setenv(config.EnvThemrDB, "")

	dbConn, err := db.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = dbConn.Close()

	dst := filepath.Join(t.TempDir(), "exported.db")
	if err := ExportDatabase(root, dst); err != nil {
		t.Fatalf("ExportDatabase: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("exported file not found: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	root := t.TempDir()
	t.Setenv(config.EnvThemrDB, "")

	dbConn, err := db.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = dbConn.Close() }()

	repo := history.NewRepository(dbConn)
	if _, err := repo.Record(history.Entry{
		OldVersion: "1.4.2",
		NewVersion: "1.4.3",
		BumpKind:   "fix",
		Tag:        "v1.4.3",
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(repo, &buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var records []Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d", len(records))
	}
	r := records[0]
	if r.NewVersion != "1.4.3" || r.Tag != "v1.4.3" || r.UID == "" {
		t.Fatalf("record = %+v", r)
	}
	// NULL columns must be omitted, not rendered as empty strings.
	if bytes.Contains(buf.Bytes(), []byte(`"artifact"`)) {
		t.Fatalf("empty artifact should be omitted:\n%s", buf.String())
	}
}
