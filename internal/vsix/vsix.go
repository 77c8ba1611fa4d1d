// Package vsix builds the .vsix archive for a release, either by shelling
// out to vsce or with the built-in packer.
package vsix

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/VoxDroid/themr/internal/executor"
	"github.com/VoxDroid/themr/internal/manifest"
)

// Packager produces a .vsix for the project rooted at root and returns
// the path of the archive it wrote.
type Packager interface {
	Name() string
	Package(ctx context.Context, root string, m manifest.Manifest, outDir string) (string, error)
}

// FileName returns the conventional archive name for a manifest.
func FileName(m manifest.Manifest) string {
	return fmt.Sprintf("%s-%s.vsix", m.Name, m.Version)
}

// VsceTool packages by invoking the vsce binary, the same tool the
// marketplace publish flow uses.
type VsceTool struct {
	runner executor.Runner
	bin    string
}

// NewVsceTool returns a vsce-backed packager. bin is the binary name,
// usually "vsce".
func NewVsceTool(runner executor.Runner, bin string) *VsceTool {
	return &VsceTool{runner: runner, bin: bin}
}

func (v *VsceTool) Name() string { return v.bin }

// Available reports whether the packaging binary is on PATH.
func (v *VsceTool) Available() error {
	if _, err := v.runner.LookPath(v.bin); err != nil {
		return fmt.Errorf("%s not found in PATH (npm install -g @vscode/vsce): %w", v.bin, err)
	}
	return nil
}

func (v *VsceTool) Package(ctx context.Context, root string, m manifest.Manifest, outDir string) (string, error) {
	out := filepath.Join(outDir, FileName(m))
	_, err := v.runner.Run(ctx, executor.Command{
		Name: v.bin,
		Args: []string{"package", "-o", out},
		Dir:  root,
	})
	if err != nil {
		return "", fmt.Errorf("%s package: %w", v.bin, err)
	}
	return out, nil
}
