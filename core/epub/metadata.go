package epub

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/folio/core/xml"
)

const (
	dcNamespace      = "http://purl.org/dc/elements/1.1/"
	dctermsNamespace = "http://purl.org/dc/terms/"
)

// kvFieldOrder lists the fields the key-value rendering prints first, in
// this order. Remaining fields follow in first-seen document order.
var kvFieldOrder = []string{"title", "creator", "language", "identifier", "publisher", "date", "subject"}

// MetadataEntry is one occurrence of a metadata field. Repeated fields such
// as multiple dc:creator elements produce one entry each.
type MetadataEntry struct {
	Value string
	Attrs map[string]string
}

// Metadata holds the Dublin Core metadata of a package document. Field
// names are case-insensitive and stored lowercased.
type Metadata struct {
	fields map[string][]MetadataEntry
	order  []string
	raw    []byte
}

// parseMetadata collects dc:* and dcterms:* descendants of the metadata
// element, plus EPUB 3 meta elements refining dcterms properties. Elements
// with empty text are skipped.
func parseMetadata(node *xml.Node) *Metadata {
	m := &Metadata{
		fields: make(map[string][]MetadataEntry),
		raw:    []byte(node.XML()),
	}

	for _, el := range node.Descendants() {
		ns := el.Namespace()
		if ns == dcNamespace || ns == dctermsNamespace {
			m.add(el.Name(), MetadataEntry{
				Value: normalizeSpace(el.InnerText()),
				Attrs: el.Attributes(),
			})
			continue
		}

		if el.Name() == "meta" {
			prop := el.Attr("property")
			if !strings.HasPrefix(prop, "dcterms:") {
				continue
			}
			m.add(strings.TrimPrefix(prop, "dcterms:"), MetadataEntry{
				Value: normalizeSpace(el.InnerText()),
				Attrs: el.Attributes(),
			})
		}
	}

	return m
}

func (m *Metadata) add(name string, e MetadataEntry) {
	if e.Value == "" {
		return
	}
	key := strings.ToLower(name)
	if _, ok := m.fields[key]; !ok {
		m.order = append(m.order, key)
	}
	m.fields[key] = append(m.fields[key], e)
}

// Get returns the value of the named field. Repeated fields are joined with
// ", ". Missing fields yield the empty string.
func (m *Metadata) Get(name string) string {
	return strings.Join(m.Values(name), ", ")
}

// Values returns every occurrence of the named field in document order.
func (m *Metadata) Values(name string) []string {
	entries := m.fields[strings.ToLower(name)]
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// Entries returns the full occurrences of the named field, attributes
// included.
func (m *Metadata) Entries(name string) []MetadataEntry {
	return m.fields[strings.ToLower(name)]
}

// Has reports whether the named field occurs at least once.
func (m *Metadata) Has(name string) bool {
	_, ok := m.fields[strings.ToLower(name)]
	return ok
}

// Fields returns the field names present, preferred display order first.
func (m *Metadata) Fields() []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range kvFieldOrder {
		if m.Has(name) {
			out = append(out, name)
			seen[name] = true
		}
	}
	for _, name := range m.order {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

// Title returns the dc:title value, empty when absent.
func (m *Metadata) Title() string { return m.Get("title") }

// Creator returns the dc:creator value, empty when absent.
func (m *Metadata) Creator() string { return m.Get("creator") }

// Language returns the dc:language value, empty when absent.
func (m *Metadata) Language() string { return m.Get("language") }

// Identifier returns the dc:identifier value, empty when absent.
func (m *Metadata) Identifier() string { return m.Get("identifier") }

// Publisher returns the dc:publisher value, empty when absent.
func (m *Metadata) Publisher() string { return m.Get("publisher") }

// Date returns the dc:date value, empty when absent.
func (m *Metadata) Date() string { return m.Get("date") }

// Subject returns the dc:subject value, empty when absent.
func (m *Metadata) Subject() string { return m.Get("subject") }

// Description returns the dc:description value, empty when absent.
func (m *Metadata) Description() string { return m.Get("description") }

// Raw returns the metadata element as serialized XML.
func (m *Metadata) Raw() []byte {
	return m.raw
}

// XML renders the metadata element, optionally pretty-printed.
func (m *Metadata) XML(pretty bool) (string, error) {
	if !pretty {
		return string(m.raw), nil
	}
	out, err := xml.Format(m.raw, xml.FormatOptions{})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// KV renders the metadata as key-value lines, one per occurrence.
func (m *Metadata) KV() string {
	var b strings.Builder
	for _, name := range m.Fields() {
		for _, value := range m.Values(name) {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	return b.String()
}
