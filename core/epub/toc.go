package epub

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/folio/core/xml"
	"github.com/FocuswithJustin/folio/internal/logging"
)

// TocSource identifies which document produced a table of contents.
type TocSource int

const (
	// TocSourceNone means no table of contents document was found.
	TocSourceNone TocSource = iota

	// TocSourceNcx means the legacy NCX document was used.
	TocSourceNcx

	// TocSourceNav means the EPUB 3 navigation document was used.
	TocSourceNav
)

// String returns the source name used in output and logs.
func (s TocSource) String() string {
	switch s {
	case TocSourceNcx:
		return "ncx"
	case TocSourceNav:
		return "nav"
	default:
		return "none"
	}
}

// NavItem is one entry of the normalized table of contents tree.
type NavItem struct {
	Title    string
	Target   string
	Children []NavItem
}

// TocDocument is a resolved and parsed table of contents, normalized to the
// same tree shape regardless of source.
type TocDocument struct {
	Source    TocSource
	Path      string
	MediaType string
	Title     string
	Items     []NavItem

	raw []byte
}

// Raw returns the source document bytes as stored in the archive.
func (t *TocDocument) Raw() []byte {
	return t.raw
}

// XML renders the source document, optionally pretty-printed. Navigation
// documents that fail XML formatting are returned unformatted.
func (t *TocDocument) XML(pretty bool) (string, error) {
	if !pretty {
		return string(t.raw), nil
	}
	out, err := xml.Format(t.raw, xml.FormatOptions{})
	if err != nil {
		return string(t.raw), nil
	}
	return string(out), nil
}

// Plain renders the normalized tree as indented text, one entry per line.
func (t *TocDocument) Plain() string {
	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "%s\n", t.Title)
	}
	writeNavItems(&b, t.Items, 0)
	return b.String()
}

// Len returns the total number of entries in the tree.
func (t *TocDocument) Len() int {
	return countNavItems(t.Items)
}

func writeNavItems(b *strings.Builder, items []NavItem, depth int) {
	for _, item := range items {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(item.Title)
		if item.Target != "" {
			fmt.Fprintf(b, " -> %s", item.Target)
		}
		b.WriteByte('\n')
		writeNavItems(b, item.Children, depth+1)
	}
}

func countNavItems(items []NavItem) int {
	n := len(items)
	for _, item := range items {
		n += countNavItems(item.Children)
	}
	return n
}

// tocMode selects which table of contents source to resolve.
type tocMode int

const (
	tocModeAuto tocMode = iota
	tocModeNcx
	tocModeNav
)

// findNcxItem locates the NCX manifest item: first by media type, then via
// the spine toc attribute.
func findNcxItem(p *Package) *ManifestItem {
	if items := p.Manifest.ByMediaType(NcxMediaType); len(items) > 0 {
		return items[0]
	}
	if p.Spine.Toc != "" {
		if it, ok := p.Manifest.Item(p.Spine.Toc); ok {
			return it
		}
	}
	return nil
}

// findNavItem locates the EPUB 3 navigation document manifest item by its
// nav property.
func findNavItem(p *Package) *ManifestItem {
	if items := p.Manifest.ByProperty(NavProperty); len(items) > 0 {
		return items[0]
	}
	return nil
}

// resolveToc selects and parses the table of contents for p. A nil
// TocDocument with a nil error means the selected source does not exist in
// the publication; forcing a source via mode does not turn that miss into
// an error.
//
// In automatic mode EPUB 3 publications prefer the navigation document and
// fall back to the NCX; older publications only ever consult the NCX.
func resolveToc(a *Archive, p *Package, mode tocMode) (*TocDocument, error) {
	var item *ManifestItem
	var source TocSource

	switch mode {
	case tocModeNcx:
		item, source = findNcxItem(p), TocSourceNcx
	case tocModeNav:
		item, source = findNavItem(p), TocSourceNav
	default:
		if p.Major >= 3 {
			if nav := findNavItem(p); nav != nil {
				item, source = nav, TocSourceNav
			}
		}
		if item == nil {
			if ncx := findNcxItem(p); ncx != nil {
				item, source = ncx, TocSourceNcx
			}
		}
	}

	if item == nil {
		logging.ResolveEvent("toc", "", "source", TocSourceNone.String())
		return nil, nil
	}

	archivePath := resolveHref(p.Dir(), item.Href)
	data, err := a.Read(archivePath)
	if err != nil {
		return nil, err
	}

	var t *TocDocument
	if source == TocSourceNav {
		t, err = parseNav(data, archivePath)
	} else {
		t, err = parseNcx(data, archivePath)
	}
	if err != nil {
		return nil, err
	}
	t.MediaType = item.MediaType

	logging.ResolveEvent("toc", archivePath, "source", source.String())
	return t, nil
}
