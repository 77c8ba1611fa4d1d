// Package exporter writes the release ledger out of the project, either
// as a database copy or as portable JSON.
package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/history"
)

// ExportDatabase copies the project's ledger database to dstPath.
func ExportDatabase(root, dstPath string) error {
	src := config.DBPath(root)
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source db: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create dst db: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// Record is the portable JSON form of one ledger row. Optional columns
// are omitted when NULL so exports stay diff-friendly.
type Record struct {
	UID         string `json:"uid"`
	OldVersion  string `json:"old_version"`
	NewVersion  string `json:"new_version"`
	BumpKind    string `json:"bump_kind"`
	Tag         string `json:"tag,omitempty"`
	Branch      string `json:"branch,omitempty"`
	CommitHash  string `json:"commit,omitempty"`
	Packager    string `json:"packager,omitempty"`
	Artifact    string `json:"artifact,omitempty"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorEmail string `json:"author_email,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ToRecord converts a ledger row to its portable form.
func ToRecord(rel history.Release) Record {
	return Record{
		UID:         rel.UID,
		OldVersion:  rel.OldVersion,
		NewVersion:  rel.NewVersion,
		BumpKind:    rel.BumpKind,
		Tag:         rel.Tag.String,
		Branch:      rel.Branch.String,
		CommitHash:  rel.CommitHash.String,
		Packager:    rel.Packager.String,
		Artifact:    rel.Artifact.String,
		AuthorName:  rel.AuthorName.String,
		AuthorEmail: rel.AuthorEmail.String,
		Notes:       rel.Notes.String,
		CreatedAt:   rel.CreatedAt,
	}
}

// ExportJSON writes the whole ledger to w as indented JSON, newest row
// first.
func ExportJSON(repo *history.Repository, w io.Writer) error {
	rels, err := repo.List(0)
	if err != nil {
		return err
	}
	records := make([]Record, 0, len(rels))
	for _, rel := range rels {
		records = append(records, ToRecord(rel))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	return nil
}

// ExportJSONFile writes the ledger JSON to dstPath.
func ExportJSONFile(repo *history.Repository, dstPath string) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	f, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer func() { _ = f.Close() }()
	return ExportJSON(repo, f)
}
