package epub

import (
	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/core/xml"
)

// parseNcx parses an NCX document into the normalized tree. Namespace
// prefixes are ignored so both namespaced and bare NCX markup parse the
// same way.
func parseNcx(data []byte, archivePath string) (*TocDocument, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.NewParse("NCX", archivePath, err.Error())
	}

	t := &TocDocument{
		Source: TocSourceNcx,
		Path:   archivePath,
		raw:    data,
	}

	if title, _ := doc.XPathFirst("//*[local-name()='docTitle']/*[local-name()='text']"); title != nil {
		t.Title = normalizeSpace(title.InnerText())
	}

	if navMap, _ := doc.XPathFirst("//*[local-name()='navMap']"); navMap != nil {
		t.Items = parseNavPoints(navMap)
	}

	return t, nil
}

// parseNavPoints walks navPoint children recursively. Entries carrying
// neither a label, a target, nor children are skipped.
func parseNavPoints(n *xml.Node) []NavItem {
	var items []NavItem
	for _, child := range n.Children() {
		if child.Name() != "navPoint" {
			continue
		}

		var item NavItem
		for _, sub := range child.Children() {
			switch sub.Name() {
			case "navLabel":
				for _, lbl := range sub.Children() {
					if lbl.Name() == "text" {
						item.Title = normalizeSpace(lbl.InnerText())
						break
					}
				}
			case "content":
				item.Target = sub.Attr("src")
			}
		}
		item.Children = parseNavPoints(child)

		if item.Title == "" && item.Target == "" && len(item.Children) == 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}
