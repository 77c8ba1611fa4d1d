package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestOpenEditorUsesEditorEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a Unix shell")
	}
	tmp := t.TempDir()
	marker := filepath.Join(tmp, "ran")
	fake := filepath.Join(tmp, "fake-editor")
	script := "#!/bin/sh\necho \"$1\" > " + marker + "\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake editor: %v", err)
	}
	t.Setenv("EDITOR", fake)

	target := filepath.Join(tmp, "NOTES.md")
	if err := OpenEditor(target); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	b, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("editor never ran: %v", err)
	}
	if got := string(b); got != target+"\n" {
		t.Fatalf("editor got wrong file: %q", got)
	}
}

func TestOpenEditorFailure(t *testing.T) {
	t.Setenv("EDITOR", "/nonexistent/editor")
	if err := OpenEditor("whatever"); err == nil {
		t.Fatal("expected error for missing editor")
	}
}
