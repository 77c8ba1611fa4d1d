// Package security screens hook commands before the release flow runs
// them. A hook comes from the project's own config file, so this is a
// guard against copy-paste accidents, not a sandbox.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var blockedPatterns = []struct {
	re     *regexp.Regexp
	reason string
}{
	// Destructive filesystem ops against absolute paths.
	{regexp.MustCompile(`(?i)\brm\s+-rf\s+/(\s|$)`), "removes the filesystem root"},
	{regexp.MustCompile(`(?i)\brm\s+-rf\s+/[a-z]`), "recursive delete of an absolute path"},
	{regexp.MustCompile(`(?i)\bmkfs\b`), "formats a filesystem"},
	{regexp.MustCompile(`(?i)\bdd\s+if=`), "raw disk write"},
	{regexp.MustCompile(`(?i)\bwipefs\b`), "wipes disk signatures"},
	{regexp.MustCompile(`>\s*/dev/sd[a-z]`), "writes to a block device"},
	// fork bombs (e.g. :(){ :|:& };:)
	{regexp.MustCompile(`:\(\)\s*\{`), "fork bomb"},
	// Hooks run mid-release with the tree in a known state; rewriting
	// history from inside one corrupts the flow.
	{regexp.MustCompile(`(?i)\bgit\s+push\s+(-f\b|--force)`), "force push from inside a release"},
	{regexp.MustCompile(`(?i)\bgit\s+reset\s+--hard`), "hard reset from inside a release"},
}

// CheckAllowed returns nil when the hook command may run, or an error
// naming why it is blocked. Conservative and not exhaustive.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return errors.New("empty hook command")
	}
	for _, p := range blockedPatterns {
		if p.re.MatchString(cmd) {
			return fmt.Errorf("hook blocked: %s", p.reason)
		}
	}
	return nil
}
