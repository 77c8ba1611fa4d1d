// Package highlight renders syntax samples through a theme's token rules
// so a terminal preview shows roughly what the editor would.
package highlight

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/VoxDroid/themr/internal/theme"
)

// scopeMap pairs the TextMate scopes a theme is expected to style with
// the highlighting token class they drive. Later rows override earlier
// ones when they land on the same token class.
var scopeMap = []struct {
	Scope string
	Token chroma.TokenType
}{
	{"comment", chroma.Comment},
	{"string", chroma.LiteralString},
	{"constant.character.escape", chroma.LiteralStringEscape},
	{"constant.numeric", chroma.LiteralNumber},
	{"constant.language", chroma.KeywordConstant},
	{"keyword", chroma.Keyword},
	{"keyword.operator", chroma.Operator},
	{"storage.type", chroma.KeywordDeclaration},
	{"storage.modifier", chroma.KeywordReserved},
	{"support.type", chroma.KeywordType},
	{"support.function", chroma.NameBuiltin},
	{"variable", chroma.NameVariable},
	{"entity.name.function", chroma.NameFunction},
	{"entity.name.type", chroma.NameClass},
	{"entity.name.tag", chroma.NameTag},
	{"entity.other.attribute-name", chroma.NameAttribute},
	{"punctuation", chroma.Punctuation},
	{"invalid", chroma.Error},
	{"markup.heading", chroma.GenericHeading},
	{"markup.bold", chroma.GenericStrong},
	{"markup.italic", chroma.GenericEmph},
	{"markup.inserted", chroma.GenericInserted},
	{"markup.deleted", chroma.GenericDeleted},
	{"markup.underline.link", chroma.GenericUnderline},
	{"markup.inline.raw", chroma.LiteralStringBacktick},
}

// BuildStyle converts a theme's token rules into a highlighting style.
// Scopes the theme leaves unstyled inherit the editor foreground.
func BuildStyle(th theme.Theme) (*chroma.Style, error) {
	entries := chroma.StyleEntries{}
	if base := entrySpec(theme.Settings{
		Foreground: th.Colors["editor.foreground"],
		Background: th.Colors["editor.background"],
	}); base != "" {
		entries[chroma.Background] = base
	}
	for _, m := range scopeMap {
		settings, ok := th.Lookup(m.Scope)
		if !ok {
			continue
		}
		if spec := entrySpec(settings); spec != "" {
			entries[m.Token] = spec
		}
	}
	name := th.Name
	if name == "" {
		name = "themr"
	}
	style, err := chroma.NewStyle(name, entries)
	if err != nil {
		return nil, fmt.Errorf("build style: %w", err)
	}
	return style, nil
}

// entrySpec renders a settings block as a style entry string, e.g.
// "italic #5a5a72 bg:#101018". Strikethrough has no terminal mapping and
// is dropped.
func entrySpec(s theme.Settings) string {
	var parts []string
	for _, tok := range strings.Fields(s.FontStyle) {
		switch tok {
		case "italic", "bold", "underline":
			parts = append(parts, tok)
		}
	}
	if s.Foreground != "" {
		parts = append(parts, s.Foreground)
	}
	if s.Background != "" {
		parts = append(parts, "bg:"+s.Background)
	}
	return strings.Join(parts, " ")
}

// Renderer paints source text with a theme-derived style.
type Renderer struct {
	// Formatter selects the output encoding. Defaults to 256-color ANSI,
	// upgraded to truecolor when the terminal advertises it.
	Formatter string

	style *chroma.Style
}

// New builds a renderer for the theme.
func New(th theme.Theme) (*Renderer, error) {
	style, err := BuildStyle(th)
	if err != nil {
		return nil, err
	}
	return &Renderer{Formatter: defaultFormatter(), style: style}, nil
}

// Style exposes the derived highlighting style.
func (r *Renderer) Style() *chroma.Style { return r.style }

func defaultFormatter() string {
	switch os.Getenv("COLORTERM") {
	case "truecolor", "24bit":
		return "terminal16m"
	}
	return "terminal256"
}

// lexerFor resolves the lexer from the registry hint, then the file name,
// then the plain-text fallback.
func lexerFor(hint, fileName string) chroma.Lexer {
	var lx chroma.Lexer
	if hint != "" {
		lx = lexers.Get(hint)
	}
	if lx == nil && fileName != "" {
		lx = lexers.Match(fileName)
	}
	if lx == nil {
		lx = lexers.Fallback
	}
	return chroma.Coalesce(lx)
}

// Render writes the highlighted source to w.
func (r *Renderer) Render(w io.Writer, source, lexerHint, fileName string) error {
	it, err := lexerFor(lexerHint, fileName).Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("tokenise %s: %w", fileName, err)
	}
	f := formatters.Get(r.Formatter)
	if f == nil {
		f = formatters.Fallback
	}
	if err := f.Format(w, r.style, it); err != nil {
		return fmt.Errorf("render %s: %w", fileName, err)
	}
	return nil
}

// ScopeCoverage reports whether the theme styles one expected scope.
type ScopeCoverage struct {
	Scope  string
	Token  string
	Styled bool
}

// Coverage lists every scope the preview relies on and whether the theme
// styles it. Unstyled scopes are not errors, they just render in the
// default foreground.
func Coverage(th theme.Theme) []ScopeCoverage {
	out := make([]ScopeCoverage, 0, len(scopeMap))
	for _, m := range scopeMap {
		_, ok := th.Lookup(m.Scope)
		out = append(out, ScopeCoverage{Scope: m.Scope, Token: m.Token.String(), Styled: ok})
	}
	return out
}

// LanguageCoverage reports how one sample's tokens met the theme: the
// scopes whose rules actually fired while tokenizing it, and the emitted
// token types that fell through to the default foreground.
type LanguageCoverage struct {
	Language    string
	Fired       []string
	FellThrough []string
}

// styledToken resolves a token type to the theme scope styling it,
// walking up through the sub-category and category like the highlighter's
// style resolution does.
func styledToken(styled map[chroma.TokenType]string, t chroma.TokenType) (string, bool) {
	for _, cand := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if scope, ok := styled[cand]; ok {
			return scope, true
		}
	}
	return "", false
}

// CoverageFor tokenizes one sample and reports which theme rules fired
// for it. Plain text tokens are skipped: they render in the editor
// foreground on purpose.
func CoverageFor(th theme.Theme, language, source, lexerHint, fileName string) (LanguageCoverage, error) {
	it, err := lexerFor(lexerHint, fileName).Tokenise(nil, source)
	if err != nil {
		return LanguageCoverage{}, fmt.Errorf("tokenise %s: %w", fileName, err)
	}

	styled := map[chroma.TokenType]string{}
	for _, m := range scopeMap {
		if _, ok := th.Lookup(m.Scope); ok {
			styled[m.Token] = m.Scope
		}
	}

	fired := map[string]bool{}
	missed := map[string]bool{}
	for tok := it(); tok != chroma.EOF; tok = it() {
		t := tok.Type
		if t.Category() == chroma.Text || strings.TrimSpace(tok.Value) == "" {
			continue
		}
		if scope, ok := styledToken(styled, t); ok {
			fired[scope] = true
		} else {
			missed[t.String()] = true
		}
	}

	cov := LanguageCoverage{Language: language}
	for scope := range fired {
		cov.Fired = append(cov.Fired, scope)
	}
	for name := range missed {
		cov.FellThrough = append(cov.FellThrough, name)
	}
	sort.Strings(cov.Fired)
	sort.Strings(cov.FellThrough)
	return cov, nil
}
