package vsix

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/VoxDroid/themr/internal/manifest"
)

// BuiltinPacker writes the archive directly, with no node toolchain. The
// layout follows the VSIX container format: an OPC content-types file, a
// vsixmanifest, and the extension payload under extension/.
type BuiltinPacker struct{}

func (BuiltinPacker) Name() string { return "builtin" }

// optionalFiles are packed when present in the project root.
var optionalFiles = []string{"README.md", "CHANGELOG.md", "LICENSE", "LICENSE.md"}

func (BuiltinPacker) Package(ctx context.Context, root string, m manifest.Manifest, outDir string) (string, error) {
	files, err := collectFiles(root, m)
	if err != nil {
		return "", err
	}

	out := filepath.Join(outDir, FileName(m))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := writeEntry(zw, "[Content_Types].xml", contentTypes(files)); err != nil {
		return "", err
	}
	vm, err := vsixManifest(m)
	if err != nil {
		return "", err
	}
	if err := writeEntry(zw, "extension.vsixmanifest", vm); err != nil {
		return "", err
	}
	for _, rel := range files {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", fmt.Errorf("pack %s: %w", rel, err)
		}
		if err := writeEntry(zw, path.Join("extension", rel), data); err != nil {
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finish archive: %w", err)
	}
	return out, nil
}

// collectFiles returns the project-relative slash paths to pack: the
// manifest, every declared theme file, the icon, and conventional docs.
func collectFiles(root string, m manifest.Manifest) ([]string, error) {
	files := []string{"package.json"}
	for _, t := range m.Contributes.Themes {
		rel := path.Clean(filepath.ToSlash(t.Path))
		rel = strings.TrimPrefix(rel, "./")
		if rel == "" || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
			return nil, fmt.Errorf("theme %q: path %q escapes the project", t.Label, t.Path)
		}
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return nil, fmt.Errorf("theme %q: %w", t.Label, err)
		}
		files = append(files, rel)
	}
	if m.Icon != "" {
		files = append(files, strings.TrimPrefix(path.Clean(filepath.ToSlash(m.Icon)), "./"))
	}
	for _, name := range optionalFiles {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	// Drop duplicates so a README declared twice packs once.
	out := files[:0]
	for i, f := range files {
		if i == 0 || files[i-1] != f {
			out = append(out, f)
		}
	}
	return out, nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	return nil
}

var contentTypeByExt = map[string]string{
	"json":         "application/json",
	"vsixmanifest": "text/xml",
	"md":           "text/markdown",
	"txt":          "text/plain",
	"png":          "image/png",
	"svg":          "image/svg+xml",
	"jpg":          "image/jpeg",
	"jpeg":         "image/jpeg",
	"gif":          "image/gif",
}

type ctDefault struct {
	XMLName     xml.Name `xml:"Default"`
	Extension   string   `xml:"Extension,attr"`
	ContentType string   `xml:"ContentType,attr"`
}

type ctOverride struct {
	XMLName     xml.Name `xml:"Override"`
	PartName    string   `xml:"PartName,attr"`
	ContentType string   `xml:"ContentType,attr"`
}

type ctTypes struct {
	XMLName   xml.Name `xml:"Types"`
	Xmlns     string   `xml:"xmlns,attr"`
	Defaults  []ctDefault
	Overrides []ctOverride
}

// contentTypes builds the OPC [Content_Types].xml. Every part needs a
// type: files with extensions get a Default, extensionless ones (a bare
// LICENSE) get a per-part Override.
func contentTypes(files []string) []byte {
	exts := map[string]bool{"vsixmanifest": true, "json": true}
	doc := ctTypes{Xmlns: "http://schemas.openxmlformats.org/package/2006/content-types"}
	for _, f := range files {
		ext := strings.TrimPrefix(path.Ext(f), ".")
		if ext == "" {
			doc.Overrides = append(doc.Overrides, ctOverride{
				PartName:    "/extension/" + f,
				ContentType: "text/plain",
			})
			continue
		}
		exts[strings.ToLower(ext)] = true
	}
	names := make([]string, 0, len(exts))
	for ext := range exts {
		names = append(names, ext)
	}
	sort.Strings(names)
	for _, ext := range names {
		ct := contentTypeByExt[ext]
		if ct == "" {
			ct = "application/octet-stream"
		}
		doc.Defaults = append(doc.Defaults, ctDefault{Extension: ext, ContentType: ct})
	}
	body, _ := xml.MarshalIndent(doc, "", "  ")
	return append([]byte(xml.Header), body...)
}

type vsixIdentity struct {
	XMLName   xml.Name `xml:"Identity"`
	Language  string   `xml:"Language,attr"`
	ID        string   `xml:"Id,attr"`
	Version   string   `xml:"Version,attr"`
	Publisher string   `xml:"Publisher,attr"`
}

type vsixMetadata struct {
	Identity    vsixIdentity
	DisplayName string `xml:"DisplayName"`
	Description string `xml:"Description"`
	Categories  string `xml:"Categories"`
}

type vsixTarget struct {
	XMLName xml.Name `xml:"InstallationTarget"`
	ID      string   `xml:"Id,attr"`
}

type vsixAsset struct {
	XMLName     xml.Name `xml:"Asset"`
	Type        string   `xml:"Type,attr"`
	Path        string   `xml:"Path,attr"`
	Addressable string   `xml:"Addressable,attr"`
}

type vsixPackage struct {
	XMLName      xml.Name `xml:"PackageManifest"`
	Version      string   `xml:"Version,attr"`
	Xmlns        string   `xml:"xmlns,attr"`
	Metadata     vsixMetadata
	Installation struct {
		Targets []vsixTarget
	} `xml:"Installation"`
	Dependencies string `xml:"Dependencies"`
	Assets       struct {
		Assets []vsixAsset
	} `xml:"Assets"`
}

// vsixManifest renders the extension.vsixmanifest document.
func vsixManifest(m manifest.Manifest) ([]byte, error) {
	display := m.DisplayName
	if display == "" {
		display = m.Name
	}
	categories := strings.Join(m.Categories, ",")
	if categories == "" {
		categories = "Themes"
	}
	doc := vsixPackage{
		Version: "2.0.0",
		Xmlns:   "http://schemas.microsoft.com/developer/vsx-schema/2011",
		Metadata: vsixMetadata{
			Identity: vsixIdentity{
				Language:  "en-US",
				ID:        m.Name,
				Version:   m.Version,
				Publisher: m.Publisher,
			},
			DisplayName: display,
			Description: m.Description,
			Categories:  categories,
		},
	}
	doc.Installation.Targets = []vsixTarget{{ID: "Microsoft.VisualStudio.Code"}}
	doc.Assets.Assets = []vsixAsset{{
		Type:        "Microsoft.VisualStudio.Code.Manifest",
		Path:        "extension/package.json",
		Addressable: "true",
	}}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render vsixmanifest: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
