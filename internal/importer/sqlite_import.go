// Package importer merges ledger rows from another machine or a JSON
// export into the project's release history.
package importer

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/exporter"
	"github.com/VoxDroid/themr/internal/history"
)

// ImportDatabase copies srcPath over the project's ledger database. If
// overwrite is false and a ledger exists, an error is returned.
func ImportDatabase(root, srcPath string, overwrite bool) error {
	dst := config.DBPath(root)
	if _, err := os.Stat(dst); err == nil && !overwrite {
		return errors.New("ledger database exists; pass overwrite to replace it")
	}
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create dst: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// MergeDatabase copies every release row from the ledger at srcPath into
// repo, skipping rows whose UID is already present. It returns how many
// rows were imported.
func MergeDatabase(repo *history.Repository, srcPath string) (int, error) {
	src, err := sql.Open("sqlite", srcPath)
	if err != nil {
		return 0, fmt.Errorf("open src: %w", err)
	}
	defer func() { _ = src.Close() }()

	rows, err := src.Query(`SELECT uid, old_version, new_version, bump_kind, tag, branch, commit_hash,
			packager, artifact, author_name, author_email, notes, created_at FROM releases ORDER BY id ASC`)
	if err != nil {
		return 0, fmt.Errorf("read source ledger: %w", err)
	}
	defer func() { _ = rows.Close() }()

	imported := 0
	for rows.Next() {
		var rel history.Release
		if err := rows.Scan(&rel.UID, &rel.OldVersion, &rel.NewVersion, &rel.BumpKind,
			&rel.Tag, &rel.Branch, &rel.CommitHash, &rel.Packager, &rel.Artifact,
			&rel.AuthorName, &rel.AuthorEmail, &rel.Notes, &rel.CreatedAt); err != nil {
			return imported, err
		}
		ok, err := importRow(repo, rel)
		if err != nil {
			return imported, err
		}
		if ok {
			imported++
		}
	}
	return imported, rows.Err()
}

// MergeJSON merges a JSON export (as written by the exporter) into repo,
// skipping rows whose UID is already present.
func MergeJSON(repo *history.Repository, r io.Reader) (int, error) {
	var records []exporter.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("decode ledger JSON: %w", err)
	}
	imported := 0
	for _, rec := range records {
		rel := history.Release{
			UID:         rec.UID,
			OldVersion:  rec.OldVersion,
			NewVersion:  rec.NewVersion,
			BumpKind:    rec.BumpKind,
			Tag:         nullString(rec.Tag),
			Branch:      nullString(rec.Branch),
			CommitHash:  nullString(rec.CommitHash),
			Packager:    nullString(rec.Packager),
			Artifact:    nullString(rec.Artifact),
			AuthorName:  nullString(rec.AuthorName),
			AuthorEmail: nullString(rec.AuthorEmail),
			Notes:       nullString(rec.Notes),
			CreatedAt:   rec.CreatedAt,
		}
		ok, err := importRow(repo, rel)
		if err != nil {
			return imported, err
		}
		if ok {
			imported++
		}
	}
	return imported, nil
}

func importRow(repo *history.Repository, rel history.Release) (bool, error) {
	if rel.UID == "" {
		return false, errors.New("source row has no uid")
	}
	exists, err := repo.HasUID(rel.UID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := repo.InsertRaw(rel); err != nil {
		return false, err
	}
	return true, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
