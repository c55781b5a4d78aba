package epub

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/FocuswithJustin/folio/core/xml"
	"github.com/FocuswithJustin/folio/internal/logging"
)

// NcxMediaType is the media type NCX documents carry in the manifest.
const NcxMediaType = "application/x-dtbncx+xml"

// NavProperty marks the EPUB 3 navigation document in an item's properties.
const NavProperty = "nav"

// ManifestItem is a single manifest entry.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// HasProperty reports whether the item's properties contain token.
func (it *ManifestItem) HasProperty(token string) bool {
	for _, p := range it.Properties {
		if p == token {
			return true
		}
	}
	return false
}

// Manifest maps item IDs to publication resources.
type Manifest struct {
	items map[string]*ManifestItem
	order []string
	raw   []byte
}

// parseManifest reads item children of the manifest element. Items missing
// an id or href are logged and skipped.
func parseManifest(node *xml.Node) *Manifest {
	m := &Manifest{
		items: make(map[string]*ManifestItem),
		raw:   []byte(node.XML()),
	}

	for _, child := range node.Children() {
		if child.Name() != "item" {
			continue
		}
		id := child.Attr("id")
		href := child.Attr("href")
		if id == "" || href == "" {
			logging.Debug("skipping manifest item without id or href", "id", id, "href", href)
			continue
		}
		if _, dup := m.items[id]; dup {
			logging.Debug("skipping manifest item with duplicate id", "id", id)
			continue
		}
		m.items[id] = &ManifestItem{
			ID:         id,
			Href:       href,
			MediaType:  child.Attr("media-type"),
			Properties: strings.Fields(child.Attr("properties")),
		}
		m.order = append(m.order, id)
	}

	return m
}

// Item returns the manifest entry with the given id.
func (m *Manifest) Item(id string) (*ManifestItem, bool) {
	it, ok := m.items[id]
	return it, ok
}

// Items returns every manifest entry in document order.
func (m *Manifest) Items() []*ManifestItem {
	out := make([]*ManifestItem, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}

// Len returns the number of manifest entries.
func (m *Manifest) Len() int {
	return len(m.order)
}

// ByMediaType returns the entries declaring the given media type, in
// document order.
func (m *Manifest) ByMediaType(mediaType string) []*ManifestItem {
	var out []*ManifestItem
	for _, it := range m.Items() {
		if it.MediaType == mediaType {
			out = append(out, it)
		}
	}
	return out
}

// ByProperty returns the entries whose properties contain token, in
// document order.
func (m *Manifest) ByProperty(token string) []*ManifestItem {
	var out []*ManifestItem
	for _, it := range m.Items() {
		if it.HasProperty(token) {
			out = append(out, it)
		}
	}
	return out
}

// Raw returns the manifest element as serialized XML.
func (m *Manifest) Raw() []byte {
	return m.raw
}

// XML renders the manifest element, optionally pretty-printed.
func (m *Manifest) XML(pretty bool) (string, error) {
	if !pretty {
		return string(m.raw), nil
	}
	out, err := xml.Format(m.raw, xml.FormatOptions{})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// KV renders the manifest as key-value lines, one item per line.
func (m *Manifest) KV() string {
	var b strings.Builder
	for _, it := range m.Items() {
		fmt.Fprintf(&b, "%s: %s (%s)", it.ID, it.Href, it.MediaType)
		if len(it.Properties) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(it.Properties, " "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// resolveHref maps a manifest href, relative to the package directory, to
// an archive member path. Fragments are stripped and URL escaping undone.
func resolveHref(dir, href string) string {
	if i := strings.Index(href, "#"); i >= 0 {
		href = href[:i]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if dir == "" {
		return path.Clean(href)
	}
	return path.Join(dir, href)
}
