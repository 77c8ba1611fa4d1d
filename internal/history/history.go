// Package history keeps the project's release ledger: one row per
// completed release, stored in the project-local SQLite database.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/VoxDroid/themr/internal/bump"
)

// ErrNoReleases is returned when the ledger is empty.
var ErrNoReleases = errors.New("no releases recorded")

// Release is one ledger row.
type Release struct {
	ID          int64
	UID         string
	OldVersion  string
	NewVersion  string
	BumpKind    string
	Tag         sql.NullString
	Branch      sql.NullString
	CommitHash  sql.NullString
	Packager    sql.NullString
	Artifact    sql.NullString
	AuthorName  sql.NullString
	AuthorEmail sql.NullString
	Notes       sql.NullString
	CreatedAt   string
}

// Entry carries the fields of a release about to be recorded. Empty
// strings are stored as NULL.
type Entry struct {
	OldVersion  string
	NewVersion  string
	BumpKind    string
	Tag         string
	Branch      string
	CommitHash  string
	Packager    string
	Artifact    string
	AuthorName  string
	AuthorEmail string
	Notes       string
}

// Repository provides ledger operations over an open database.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func nullable(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Record inserts a ledger row and returns it as stored. The new row gets
// a fresh UID so ledgers merged across machines never collide.
func (r *Repository) Record(e Entry) (Release, error) {
	if strings.TrimSpace(e.NewVersion) == "" {
		return Release{}, fmt.Errorf("invalid release: new version cannot be empty")
	}
	kind, err := bump.ParseKind(e.BumpKind)
	if err != nil {
		return Release{}, err
	}

	trx, err := r.db.Begin()
	if err != nil {
		return Release{}, err
	}
	defer func() { _ = trx.Rollback() }()

	uid := uuid.NewString()
	_, err = trx.Exec(`INSERT INTO releases
			(uid, old_version, new_version, bump_kind, tag, branch, commit_hash, packager, artifact, author_name, author_email, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))`,
		uid, e.OldVersion, e.NewVersion, string(kind),
		nullable(e.Tag), nullable(e.Branch), nullable(e.CommitHash), nullable(e.Packager),
		nullable(e.Artifact), nullable(e.AuthorName), nullable(e.AuthorEmail), nullable(e.Notes))
	if err != nil {
		return Release{}, fmt.Errorf("insert release: %w", err)
	}

	rel, err := scanRelease(trx.QueryRow(selectColumns+" FROM releases WHERE uid = ?", uid))
	if err != nil {
		return Release{}, fmt.Errorf("read back release: %w", err)
	}
	if err := trx.Commit(); err != nil {
		return Release{}, err
	}
	return rel, nil
}

const selectColumns = `SELECT id, uid, old_version, new_version, bump_kind, tag, branch, commit_hash, packager, artifact, author_name, author_email, notes, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRelease(row rowScanner) (Release, error) {
	var rel Release
	err := row.Scan(&rel.ID, &rel.UID, &rel.OldVersion, &rel.NewVersion, &rel.BumpKind,
		&rel.Tag, &rel.Branch, &rel.CommitHash, &rel.Packager, &rel.Artifact,
		&rel.AuthorName, &rel.AuthorEmail, &rel.Notes, &rel.CreatedAt)
	return rel, err
}

// List returns releases newest first. limit <= 0 returns all rows.
func (r *Repository) List(limit int) ([]Release, error) {
	q := selectColumns + " FROM releases ORDER BY id DESC"
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Release
	for rows.Next() {
		rel, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// Latest returns the most recent release, or ErrNoReleases.
func (r *Repository) Latest() (Release, error) {
	rel, err := scanRelease(r.db.QueryRow(selectColumns + " FROM releases ORDER BY id DESC LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return Release{}, ErrNoReleases
	}
	if err != nil {
		return Release{}, fmt.Errorf("latest release: %w", err)
	}
	return rel, nil
}

// ByVersion returns every ledger row whose new version matches, newest
// first. Repeated versions happen when a release is redone after a failed
// push.
func (r *Repository) ByVersion(version string) ([]Release, error) {
	rows, err := r.db.Query(selectColumns+" FROM releases WHERE new_version = ? ORDER BY id DESC", version)
	if err != nil {
		return nil, fmt.Errorf("releases by version: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Release
	for rows.Next() {
		rel, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// Count returns the number of ledger rows.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT count(*) FROM releases").Scan(&n); err != nil {
		return 0, fmt.Errorf("count releases: %w", err)
	}
	return n, nil
}

// HasUID reports whether a row with the given UID exists. Used by the
// import flow to skip rows that are already present.
func (r *Repository) HasUID(uid string) (bool, error) {
	var n int
	if err := r.db.QueryRow("SELECT count(*) FROM releases WHERE uid = ?", uid).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertRaw inserts a fully-specified row, keeping its UID and timestamp.
// Only the import flow should use this.
func (r *Repository) InsertRaw(rel Release) error {
	_, err := r.db.Exec(`INSERT INTO releases
			(uid, old_version, new_version, bump_kind, tag, branch, commit_hash, packager, artifact, author_name, author_email, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rel.UID, rel.OldVersion, rel.NewVersion, rel.BumpKind,
		rel.Tag, rel.Branch, rel.CommitHash, rel.Packager, rel.Artifact,
		rel.AuthorName, rel.AuthorEmail, rel.Notes, rel.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert release %s: %w", rel.UID, err)
	}
	return nil
}
