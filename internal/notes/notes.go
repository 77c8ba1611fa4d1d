// Package notes reads release notes typed or piped into the release flow.
package notes

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/VoxDroid/themr/internal/utils"
)

// Sentinel ends interactive input: a line holding only "." stops reading,
// the same convention as mail(1).
const Sentinel = "."

// Read collects note lines from r until EOF or the sentinel line. Lines
// starting with '#' are comments and dropped; leading and trailing blank
// lines are trimmed, interior ones kept.
func Read(r io.Reader) (string, error) {
	s := bufio.NewScanner(r)
	var lines []string
	for s.Scan() {
		line := s.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == Sentinel {
			break
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	if err := s.Err(); err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n"), nil
}

const composeTemplate = `
# Describe this release. Lines starting with '#' are dropped.
# Save and close the editor when done; an empty file skips the notes.
`

// Compose opens the user's editor on a scratch file and returns the
// cleaned-up content, filtered the same way Read filters piped input.
func Compose() (string, error) {
	f, err := os.CreateTemp("", "themr-notes-*.md")
	if err != nil {
		return "", fmt.Errorf("create notes file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(composeTemplate); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("seed notes file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close notes file: %w", err)
	}

	if err := utils.OpenEditor(path); err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read notes file: %w", err)
	}
	return Read(bytes.NewReader(b))
}
