package epub

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/core/xml"
	"github.com/FocuswithJustin/folio/internal/logging"
)

// Package is a parsed OPF package document.
type Package struct {
	// Version is the declared version attribute, possibly empty.
	Version string

	// Major and Minor are the resolved version numbers. Publications with a
	// missing or unparsable version attribute resolve to 2.0.
	Major int
	Minor int

	Metadata *Metadata
	Manifest *Manifest
	Spine    *Spine

	dir string
	raw []byte
}

// parsePackage parses OPF bytes located at opfPath inside the archive. The
// metadata, manifest, and spine sections are all required.
func parsePackage(data []byte, opfPath string) (*Package, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.NewParse("package document", opfPath, err.Error())
	}

	root := doc.Root()
	if root == nil || root.Name() != "package" {
		return nil, errors.NewParse("package document", opfPath, "missing package root element")
	}

	version := root.Attr("version")
	major, minor, ok := parseEpubVersion(version)
	if !ok {
		logging.Warn("package version missing or unparsable, treating as EPUB 2", "path", opfPath, "version", version)
		major, minor = 2, 0
	}

	var metaNode, manNode, spineNode *xml.Node
	for _, child := range root.Children() {
		switch child.Name() {
		case "metadata":
			if metaNode == nil {
				metaNode = child
			}
		case "manifest":
			if manNode == nil {
				manNode = child
			}
		case "spine":
			if spineNode == nil {
				spineNode = child
			}
		}
	}
	switch {
	case metaNode == nil:
		return nil, errors.NewParse("package document", opfPath, "missing metadata element")
	case manNode == nil:
		return nil, errors.NewParse("package document", opfPath, "missing manifest element")
	case spineNode == nil:
		return nil, errors.NewParse("package document", opfPath, "missing spine element")
	}

	return &Package{
		Version:  version,
		Major:    major,
		Minor:    minor,
		Metadata: parseMetadata(metaNode),
		Manifest: parseManifest(manNode),
		Spine:    parseSpine(spineNode),
		dir:      packageDir(opfPath),
		raw:      data,
	}, nil
}

// parseEpubVersion splits a version attribute into major and minor parts.
// ok is false when the major part is missing or not a positive integer; a
// bad minor part alone degrades to zero.
func parseEpubVersion(s string) (major, minor int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(s, ".", 3)
	major, err := strconv.Atoi(parts[0])
	if err != nil || major <= 0 {
		return 0, 0, false
	}
	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			minor = n
		}
	}
	return major, minor, true
}

// packageDir returns the directory portion of the rootfile path, empty for
// a package document at the archive root.
func packageDir(rootfilePath string) string {
	if i := strings.LastIndex(rootfilePath, "/"); i >= 0 {
		return rootfilePath[:i]
	}
	return ""
}

// Dir returns the directory prefix manifest hrefs resolve against.
func (p *Package) Dir() string {
	return p.dir
}

// VersionString returns the declared version, or the resolved fallback when
// the declaration was missing or unparsable.
func (p *Package) VersionString() string {
	if p.Version != "" {
		return p.Version
	}
	return fmt.Sprintf("%d.%d", p.Major, p.Minor)
}

// Raw returns the package document bytes as stored in the archive.
func (p *Package) Raw() []byte {
	return p.raw
}

// XML renders the package document, optionally pretty-printed.
func (p *Package) XML(pretty bool) (string, error) {
	if !pretty {
		return string(p.raw), nil
	}
	out, err := xml.Format(p.raw, xml.FormatOptions{})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// KV renders the package summary as key-value sections.
func (p *Package) KV() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version: %s\n", p.VersionString())
	b.WriteByte('\n')
	b.WriteString(p.Metadata.KV())
	b.WriteByte('\n')
	b.WriteString(p.Manifest.KV())
	b.WriteByte('\n')
	b.WriteString(p.Spine.KV())
	return b.String()
}
