package epub

import (
	"fmt"
	"path"
	"strings"

	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/core/xml"
	"github.com/FocuswithJustin/folio/internal/logging"
)

// ContentKind discriminates how a content item can be rendered.
type ContentKind int

const (
	// ContentRaw is opaque content rendered byte for byte.
	ContentRaw ContentKind = iota

	// ContentXHTML is markup content supporting plain-text extraction.
	ContentXHTML
)

// XHTMLMediaType is the media type assumed for markup content resolved
// without a manifest entry.
const XHTMLMediaType = "application/xhtml+xml"

var xhtmlMediaTypes = map[string]bool{
	"application/xhtml+xml": true,
	"text/html":             true,
}

var xhtmlExtensions = map[string]bool{
	".xhtml": true,
	".html":  true,
	".htm":   true,
}

// ContentItem is a publication resource loaded from the archive.
type ContentItem struct {
	Kind      ContentKind
	Path      string
	MediaType string

	data []byte
}

// newContentItem classifies data by media type, or by file extension when
// no media type is known.
func newContentItem(archivePath, mediaType string, data []byte) *ContentItem {
	kind := ContentRaw
	if xhtmlMediaTypes[mediaType] {
		kind = ContentXHTML
	} else if mediaType == "" && xhtmlExtensions[strings.ToLower(path.Ext(archivePath))] {
		kind = ContentXHTML
		mediaType = XHTMLMediaType
	}
	return &ContentItem{
		Kind:      kind,
		Path:      archivePath,
		MediaType: mediaType,
		data:      data,
	}
}

// Raw returns the content bytes as stored in the archive.
func (c *ContentItem) Raw() []byte {
	return c.data
}

// String returns the content bytes as a string.
func (c *ContentItem) String() string {
	return string(c.data)
}

// SupportsPlainText reports whether plain-text extraction applies to this
// content.
func (c *ContentItem) SupportsPlainText() bool {
	return c.Kind == ContentXHTML
}

// PlainText returns the markup-stripped text of XHTML content, empty for
// content kinds without text extraction.
func (c *ContentItem) PlainText() string {
	if c.Kind != ContentXHTML {
		return ""
	}
	return extractText(c.data)
}

// XML renders the content, optionally pretty-printed. Content that fails
// XML formatting is returned unformatted.
func (c *ContentItem) XML(pretty bool) (string, error) {
	if !pretty {
		return string(c.data), nil
	}
	out, err := xml.Format(c.data, xml.FormatOptions{})
	if err != nil {
		return string(c.data), nil
	}
	return string(out), nil
}

// contentByID loads the resource a manifest item points at. Unknown IDs
// yield a NotFoundError listing available IDs.
func contentByID(a *Archive, p *Package, id string) (*ContentItem, error) {
	item, ok := p.Manifest.Item(id)
	if !ok {
		return nil, errors.NewNotFoundHint("content", id, availableIDsHint(p.Manifest))
	}

	archivePath := resolveHref(p.Dir(), item.Href)
	data, err := a.Read(archivePath)
	if err != nil {
		return nil, err
	}

	logging.ResolveEvent("content", archivePath, "id", id)
	return newContentItem(archivePath, item.MediaType, data), nil
}

// contentByPath loads an archive member directly, bypassing the manifest.
// The content kind is inferred from the file extension alone.
func contentByPath(a *Archive, archivePath string) (*ContentItem, error) {
	data, err := a.Read(archivePath)
	if err != nil {
		return nil, err
	}

	logging.ResolveEvent("content", archivePath, "by", "path")
	return newContentItem(archivePath, "", data), nil
}

// availableIDsHint lists up to five manifest IDs for not-found messages.
func availableIDsHint(m *Manifest) string {
	items := m.Items()
	if len(items) == 0 {
		return "manifest is empty"
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	const max = 5
	if len(ids) <= max {
		return "available ids: " + strings.Join(ids, ", ")
	}
	return fmt.Sprintf("available ids: %s (and %d more)", strings.Join(ids[:max], ", "), len(ids)-max)
}
