// Package bump maps release arguments onto semantic version increments.
//
// The historical packaging script took one of three words and incremented
// one of the three numeric fields of the manifest version. That contract is
// kept as-is: "fix" touches the patch field, "patch" the minor field and
// "version" the major field, with lower fields resetting to zero.
package bump

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind selects which field of a major.minor.patch version is incremented.
type Kind string

const (
	// Fix increments the patch field (1.2.3 -> 1.2.4).
	Fix Kind = "fix"
	// Patch increments the minor field (1.2.3 -> 1.3.0).
	Patch Kind = "patch"
	// Version increments the major field (1.2.3 -> 2.0.0).
	Version Kind = "version"
)

// Kinds lists the accepted arguments in display order.
func Kinds() []Kind {
	return []Kind{Fix, Patch, Version}
}

// ParseKind validates a release argument. The error message enumerates the
// accepted words so the CLI can surface it verbatim.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Fix:
		return Fix, nil
	case Patch:
		return Patch, nil
	case Version:
		return Version, nil
	}
	return "", fmt.Errorf("invalid bump kind %q (expected one of: fix, patch, version)", s)
}

// Parse validates a plain major.minor.patch version string. Prerelease or
// build metadata is rejected: manifest versions are bare x.y.z.
func Parse(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", s, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, fmt.Errorf("version %q carries prerelease or build metadata; expected plain x.y.z", s)
	}
	return v, nil
}

// Apply returns the version that results from incrementing v by kind.
func Apply(v *semver.Version, kind Kind) (*semver.Version, error) {
	switch kind {
	case Fix:
		next := v.IncPatch()
		return &next, nil
	case Patch:
		next := v.IncMinor()
		return &next, nil
	case Version:
		next := v.IncMajor()
		return &next, nil
	}
	return nil, fmt.Errorf("invalid bump kind %q (expected one of: fix, patch, version)", kind)
}

// Next parses current, applies kind and returns both versions. It is the
// one-call form used by the release pipeline.
func Next(current string, kind Kind) (old, next *semver.Version, err error) {
	old, err = Parse(current)
	if err != nil {
		return nil, nil, err
	}
	next, err = Apply(old, kind)
	if err != nil {
		return nil, nil, err
	}
	return old, next, nil
}
