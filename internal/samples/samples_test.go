package samples

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAllSamplesHaveSources(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("no samples registered")
	}
	for _, s := range all {
		src, err := s.Source()
		if err != nil {
			t.Fatalf("%s: %v", s.Name, err)
		}
		if len(src) < 200 {
			t.Fatalf("%s: suspiciously short sample (%d bytes)", s.Name, len(src))
		}
	}
}

func TestAllSortedByName(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Fatalf("registry not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
}

func TestGetByNameAndFile(t *testing.T) {
	byName, err := Get("typescript")
	if err != nil {
		t.Fatalf("Get by name: %v", err)
	}
	byFile, err := Get("example.ts")
	if err != nil {
		t.Fatalf("Get by file: %v", err)
	}
	if byName != byFile {
		t.Fatalf("lookups disagree: %+v vs %+v", byName, byFile)
	}
}

func TestGetUnknownListsKnown(t *testing.T) {
	_, err := Get("cobol")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "typescript") {
		t.Fatalf("error should list known samples: %v", err)
	}
}

func TestExportThenVerifyClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "examples")
	paths, err := Export(dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(paths) != len(All()) {
		t.Fatalf("exported %d files, want %d", len(paths), len(All()))
	}
	drifts, err := Verify(dir)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("unexpected drift after export: %+v", drifts)
	}
}

func TestVerifyReportsDrift(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "examples")
	if _, err := Export(dir); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "example.sh"), []byte("echo tampered\n"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "example.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	drifts, err := Verify(dir)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	got := map[string]string{}
	for _, d := range drifts {
		got[d.File] = d.Reason
	}
	if got["example.sh"] != "modified" {
		t.Fatalf("example.sh drift = %q, want modified", got["example.sh"])
	}
	if got["example.md"] != "missing" {
		t.Fatalf("example.md drift = %q, want missing", got["example.md"])
	}
	if len(drifts) != 2 {
		t.Fatalf("drifts = %+v", drifts)
	}
}

func TestExportOverwritesTamperedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "examples")
	if _, err := Export(dir); err != nil {
		t.Fatalf("Export: %v", err)
	}
	target := filepath.Join(dir, "example.go")
	if err := os.WriteFile(target, []byte("// gone\n"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if _, err := Export(dir); err != nil {
		t.Fatalf("re-export: %v", err)
	}
	drifts, err := Verify(dir)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("drift after re-export: %+v", drifts)
	}
}
