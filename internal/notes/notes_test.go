package notes

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "first line\nsecond line\n", "first line\nsecond line"},
		{"sentinel stops reading", "kept\n.\ndropped\n", "kept"},
		{"comments dropped", "# context for the editor\nreal note\n", "real note"},
		{"outer blanks trimmed", "\n\nnote\n\n", "note"},
		{"interior blank kept", "para one\n\npara two\n", "para one\n\npara two"},
		{"trailing spaces trimmed", "note   \n", "note"},
		{"empty input", "", ""},
		{"only comments", "# a\n# b\n", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tc.in))
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestComposeFiltersEditorOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a Unix shell")
	}
	tmp := t.TempDir()
	fake := filepath.Join(tmp, "fake-editor")
	script := "#!/bin/sh\nprintf '# scratch header\\nfixed the gutter color\\n' > \"$1\"\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake editor: %v", err)
	}
	t.Setenv("EDITOR", fake)

	got, err := Compose()
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got != "fixed the gutter color" {
		t.Fatalf("got %q", got)
	}
}

func TestComposeEditorFailure(t *testing.T) {
	t.Setenv("EDITOR", "/nonexistent/editor")
	if _, err := Compose(); err == nil {
		t.Fatal("expected error when the editor cannot run")
	}
}
