package executor

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
)

func TestRunCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a Unix echo binary")
	}
	e := New(false)
	res, err := e.Run(context.Background(), Command{Name: "echo", Args: []string{"hello"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
}

func TestRunMirrorsOutputWriters(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a Unix echo binary")
	}
	var buf bytes.Buffer
	e := New(false)
	_, err := e.Run(context.Background(), Command{Name: "echo", Args: []string{"mirrored"}, Stdout: &buf})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "mirrored" {
		t.Fatalf("expected mirrored output, got %q", buf.String())
	}
}

func TestRunRejectsEmptyName(t *testing.T) {
	e := New(false)
	if _, err := e.Run(context.Background(), Command{}); err == nil {
		t.Fatalf("expected error for empty command name")
	}
}

func TestRunWrapsFailureWithStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a Unix shell")
	}
	e := New(false)
	_, err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	if err == nil {
		t.Fatalf("expected error for failing command")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected stderr detail in error, got %v", err)
	}
}

func TestLastLines(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"a\nb\nc", 2, "b; c"},
		{"a\n\n\nb\n", 5, "a; b"},
		{"only", 3, "only"},
		{"", 3, ""},
	}
	for _, c := range cases {
		if got := lastLines(c.in, c.n); got != c.want {
			t.Fatalf("lastLines(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestLookPathFindsShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a Unix shell")
	}
	e := New(false)
	if _, err := e.LookPath("sh"); err != nil {
		t.Fatalf("LookPath(sh): %v", err)
	}
	if _, err := e.LookPath("definitely-not-a-binary-xyz"); err == nil {
		t.Fatalf("expected error for missing binary")
	}
}
