package adapters

import (
	"strings"
	"sync"

	"github.com/VoxDroid/themr/internal/highlight"
	"github.com/VoxDroid/themr/internal/theme"
)

// ThemeFile renders through the theme JSON at Path and supports reloading
// after the file changes on disk.
type ThemeFile struct {
	Path string

	mu       sync.Mutex
	name     string
	renderer *highlight.Renderer
}

var _ ThemeProvider = (*ThemeFile)(nil)

// NewThemeFile loads the theme at path once up front so a broken file
// fails at startup instead of on first render.
func NewThemeFile(path string) (*ThemeFile, error) {
	tf := &ThemeFile{Path: path}
	if err := tf.Reload(); err != nil {
		return nil, err
	}
	return tf, nil
}

func (tf *ThemeFile) Name() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.name
}

// Reload re-reads the theme file and rebuilds the renderer.
func (tf *ThemeFile) Reload() error {
	th, err := theme.Load(tf.Path)
	if err != nil {
		return err
	}
	r, err := highlight.New(th)
	if err != nil {
		return err
	}
	tf.mu.Lock()
	tf.name, tf.renderer = th.Name, r
	tf.mu.Unlock()
	return nil
}

func (tf *ThemeFile) Render(source, lexerHint, fileName string) (string, error) {
	tf.mu.Lock()
	r := tf.renderer
	tf.mu.Unlock()
	var b strings.Builder
	if err := r.Render(&b, source, lexerHint, fileName); err != nil {
		return "", err
	}
	return b.String(), nil
}
