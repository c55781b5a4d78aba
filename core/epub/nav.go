package epub

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/FocuswithJustin/folio/core/errors"
)

// parseNav parses an EPUB 3 navigation document into the normalized tree.
// A document without a toc nav element yields an empty tree rather than an
// error.
func parseNav(data []byte, archivePath string) (*TocDocument, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParse("navigation document", archivePath, err.Error())
	}

	t := &TocDocument{
		Source: TocSourceNav,
		Path:   archivePath,
		raw:    data,
	}

	nav := findTocNav(root)
	if nav == nil {
		return t, nil
	}

	t.Title = navTitle(nav)
	if ol := findChildElement(nav, atom.Ol); ol != nil {
		t.Items = parseNavList(ol)
	}
	return t, nil
}

// findTocNav returns the nav element whose epub:type tokens contain "toc",
// or the first nav element when none is tagged.
func findTocNav(root *html.Node) *html.Node {
	var navs []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Nav {
				navs = append(navs, c)
			}
			walk(c)
		}
	}
	walk(root)

	for _, nav := range navs {
		if hasEpubType(nav, "toc") {
			return nav
		}
	}
	if len(navs) > 0 {
		return navs[0]
	}
	return nil
}

// hasEpubType reports whether n's epub:type attribute contains token among
// its space-separated values.
func hasEpubType(n *html.Node, token string) bool {
	for _, attr := range n.Attr {
		isEpubType := attr.Key == "epub:type" || (attr.Namespace == "epub" && attr.Key == "type")
		if !isEpubType {
			continue
		}
		for _, f := range strings.Fields(attr.Val) {
			if f == token {
				return true
			}
		}
	}
	return false
}

// navTitle returns the text of the first heading inside the nav element,
// empty when there is none.
func navTitle(nav *html.Node) string {
	var heading *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && heading == nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				switch c.DataAtom {
				case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
					heading = c
					return
				}
			}
			walk(c)
		}
	}
	walk(nav)
	if heading == nil {
		return ""
	}
	return normalizeSpace(textContent(heading))
}

// parseNavList reads li children of an ol element into tree entries.
func parseNavList(ol *html.Node) []NavItem {
	var items []NavItem
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		if item, ok := parseNavEntry(li); ok {
			items = append(items, item)
		}
	}
	return items
}

// parseNavEntry reads one li element. The anchor supplies title and target,
// a span supplies a title-only entry, and a nested ol supplies children.
// Entries with none of these are dropped.
func parseNavEntry(li *html.Node) (NavItem, bool) {
	var item NavItem
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.A:
			if item.Target == "" {
				if item.Title == "" {
					item.Title = normalizeSpace(textContent(c))
				}
				item.Target = attrValue(c, "href")
			}
		case atom.Span:
			if item.Title == "" {
				item.Title = normalizeSpace(textContent(c))
			}
		case atom.Ol:
			item.Children = append(item.Children, parseNavList(c)...)
		}
	}
	if item.Title == "" && item.Target == "" && len(item.Children) == 0 {
		return NavItem{}, false
	}
	return item, true
}

// findChildElement returns the first direct child of n with the given tag.
func findChildElement(n *html.Node, tag atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == tag {
			return c
		}
	}
	return nil
}

// textContent concatenates the text descendants of n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// attrValue returns the value of the named attribute, empty when absent.
func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name && attr.Namespace == "" {
			return attr.Val
		}
	}
	return ""
}
