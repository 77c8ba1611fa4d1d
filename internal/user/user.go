// Package user stores the author identity stamped onto ledger rows. The
// profile lives in the project's data directory; when none is stored, the
// release flow falls back to git's user.name and user.email.
package user

import (
	"context"
	"encoding/json"
	"os"

	"github.com/VoxDroid/themr/internal/config"
	"github.com/VoxDroid/themr/internal/gitrepo"
)

// Profile holds persisted author metadata.
type Profile struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// SetProfile saves the author profile for the project rooted at root.
func SetProfile(root string, p Profile) error {
	if _, err := config.EnsureDataDir(root); err != nil {
		return err
	}
	f, err := os.Create(config.ProfilePath(root))
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// GetProfile reads the stored author profile. Returns (Profile, true, nil)
// if found.
func GetProfile(root string) (Profile, bool, error) {
	b, err := os.ReadFile(config.ProfilePath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

// ClearProfile removes the persisted profile.
func ClearProfile(root string) error {
	if err := os.Remove(config.ProfilePath(root)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// Resolve returns the effective author identity: the stored profile when
// present, otherwise whatever git config carries. Either field may come
// back empty.
func Resolve(ctx context.Context, root string, repo *gitrepo.Repo) (Profile, error) {
	p, ok, err := GetProfile(root)
	if err != nil {
		return Profile{}, err
	}
	if ok && (p.Name != "" || p.Email != "") {
		return p, nil
	}
	if repo == nil {
		return Profile{}, nil
	}
	return Profile{
		Name:  repo.UserName(ctx),
		Email: repo.UserEmail(ctx),
	}, nil
}
