package epub

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/folio/core/xml"
	"github.com/FocuswithJustin/folio/internal/logging"
)

// SpineItem is a single itemref in the reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// Spine is the package reading order.
type Spine struct {
	// Toc is the spine's toc attribute, naming the NCX manifest item in
	// EPUB 2 publications. Empty when absent.
	Toc string

	// PageProgression is the page-progression-direction attribute, empty
	// when absent.
	PageProgression string

	items []SpineItem
	raw   []byte
}

// parseSpine reads itemref children of the spine element. Entries missing
// an idref are logged and skipped; linear defaults to true and is false
// only for linear="no".
func parseSpine(node *xml.Node) *Spine {
	s := &Spine{
		Toc:             node.Attr("toc"),
		PageProgression: node.Attr("page-progression-direction"),
		raw:             []byte(node.XML()),
	}

	for _, child := range node.Children() {
		if child.Name() != "itemref" {
			continue
		}
		idref := child.Attr("idref")
		if idref == "" {
			logging.Debug("skipping spine itemref without idref")
			continue
		}
		s.items = append(s.items, SpineItem{
			IDRef:  idref,
			Linear: child.Attr("linear") != "no",
		})
	}

	return s
}

// Items returns the reading order.
func (s *Spine) Items() []SpineItem {
	out := make([]SpineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of itemrefs.
func (s *Spine) Len() int {
	return len(s.items)
}

// Raw returns the spine element as serialized XML.
func (s *Spine) Raw() []byte {
	return s.raw
}

// XML renders the spine element, optionally pretty-printed.
func (s *Spine) XML(pretty bool) (string, error) {
	if !pretty {
		return string(s.raw), nil
	}
	out, err := xml.Format(s.raw, xml.FormatOptions{})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// KV renders the spine as key-value lines.
func (s *Spine) KV() string {
	var b strings.Builder
	if s.Toc != "" {
		fmt.Fprintf(&b, "toc: %s\n", s.Toc)
	}
	if s.PageProgression != "" {
		fmt.Fprintf(&b, "page-progression-direction: %s\n", s.PageProgression)
	}
	for i, it := range s.items {
		fmt.Fprintf(&b, "%d: %s", i+1, it.IDRef)
		if !it.Linear {
			b.WriteString(" (non-linear)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
