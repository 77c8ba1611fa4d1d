// Package adapters provides the small interfaces the preview TUI depends
// on, decoupling it from the samples and theme packages so tests can drive
// the UI without a terminal or theme files on disk.
package adapters

// SampleInfo is a lightweight view of one syntax sample.
type SampleInfo struct {
	Name     string
	Language string
	File     string
	Lexer    string
}

// SampleProvider lists samples and resolves their source text.
type SampleProvider interface {
	List() []SampleInfo
	Source(name string) (string, error)
}

// ThemeProvider renders source text under the project theme and reloads
// the theme from disk on request.
type ThemeProvider interface {
	Name() string
	Render(source, lexerHint, fileName string) (string, error)
	Reload() error
}
