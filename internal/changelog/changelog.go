// Package changelog turns commit subjects into Markdown release sections
// and maintains the project's CHANGELOG.md.
package changelog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/renameio/v2"
)

// DefaultFile is the conventional changelog location in the project root.
const DefaultFile = "CHANGELOG.md"

const header = "# Changelog\n"

// Section renders one release section: a version heading with the date
// and one bullet per commit subject. Subjects arrive as "hash subject"
// lines (git log --pretty=format:'%h %s'), newest first.
func Section(version string, date time.Time, subjects []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s - %s\n\n", version, date.Format("2006-01-02"))
	if len(subjects) == 0 {
		b.WriteString("- no changes recorded\n")
		return b.String()
	}
	for _, line := range subjects {
		hash, subject, found := strings.Cut(strings.TrimSpace(line), " ")
		if !found || subject == "" {
			b.WriteString("- " + strings.TrimSpace(line) + "\n")
			continue
		}
		fmt.Fprintf(&b, "- %s (`%s`)\n", subject, hash)
	}
	return b.String()
}

// Prepend inserts section below the changelog title, keeping earlier
// sections. A missing file is created with the standard header. The write
// is atomic so a crash never leaves a half-written changelog.
func Prepend(path, section string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var out strings.Builder
	body := string(existing)
	if title, rest, ok := splitTitle(body); ok {
		out.WriteString(title)
		out.WriteString("\n")
		out.WriteString(section)
		if rest != "" {
			out.WriteString("\n")
			out.WriteString(rest)
		}
	} else {
		out.WriteString(header)
		out.WriteString("\n")
		out.WriteString(section)
		if strings.TrimSpace(body) != "" {
			out.WriteString("\n")
			out.WriteString(body)
		}
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := renameio.WriteFile(path, []byte(out.String()), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// splitTitle separates a leading "# ..." title line (plus its trailing
// blank lines) from the rest of the document.
func splitTitle(body string) (title, rest string, ok bool) {
	if !strings.HasPrefix(body, "# ") {
		return "", "", false
	}
	idx := strings.Index(body, "\n")
	if idx < 0 {
		return body + "\n", "", true
	}
	title = body[:idx+1]
	rest = strings.TrimLeft(body[idx+1:], "\n")
	return title, rest, true
}
