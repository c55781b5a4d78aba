package xml

import (
	"strings"
	"testing"
)

// TestParseValidXML verifies parsing of well-formed XML.
func TestParseValidXML(t *testing.T) {
	xmlData := `<?xml version="1.0"?>
<root>
	<element attr="value">text</element>
</root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc == nil {
		t.Fatal("Parse returned nil document")
	}
}

// TestParseInvalidXML verifies error handling for malformed XML.
func TestParseInvalidXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unclosed tag", "<root><element></root>"},
		{"mismatched tags", "<root></other>"},
		{"invalid chars", "<root>\x00</root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.xml))
			if err == nil {
				t.Error("Parse should fail for invalid XML")
			}
		})
	}
}

// TestXPathQuery verifies XPath query execution.
func TestXPathQuery(t *testing.T) {
	xmlData := `<?xml version="1.0"?>
<manifest>
	<item id="ch1" href="ch1.xhtml"/>
	<item id="ch2" href="ch2.xhtml"/>
</manifest>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	results, err := doc.XPath("//item")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("XPath should return 2 results, got %d", len(results))
	}
}

// TestXPathLocalName verifies namespace-proof queries, the form EPUB
// parsing relies on.
func TestXPathLocalName(t *testing.T) {
	xmlData := `<?xml version="1.0"?>
<container xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
	<rootfiles>
		<rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
	</rootfiles>
</container>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	nodes, err := doc.XPath("//*[local-name()='rootfile']")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("should find 1 rootfile, got %d", len(nodes))
	}
	if got := nodes[0].Attr("full-path"); got != "OEBPS/content.opf" {
		t.Errorf("full-path = %q", got)
	}
}

// TestXPathQueryText verifies XPath text extraction.
func TestXPathQueryText(t *testing.T) {
	xmlData := `<root><message>Hello World</message></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	results, err := doc.XPath("//message/text()")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}

	if len(results) != 1 {
		t.Errorf("XPath should return 1 result, got %d", len(results))
	}

	if results[0].Text() != "Hello World" {
		t.Errorf("Text = %q, want %q", results[0].Text(), "Hello World")
	}
}

// TestXPathInvalidExpression verifies error handling for invalid XPath.
func TestXPathInvalidExpression(t *testing.T) {
	xmlData := `<root/>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, err = doc.XPath("[invalid")
	if err == nil {
		t.Error("Invalid XPath should return error")
	}
}

// TestXPathFirst verifies selecting a single node.
func TestXPathFirst(t *testing.T) {
	xmlData := `<root><first/><second/></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	node, err := doc.XPathFirst("//first")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if node == nil {
		t.Fatal("XPathFirst should find node")
	}
	if node.Name() != "first" {
		t.Errorf("Name = %q, want %q", node.Name(), "first")
	}
}

// TestXPathFirstNoMatch verifies nil result for no matches.
func TestXPathFirstNoMatch(t *testing.T) {
	doc, err := Parse([]byte(`<root/>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	node, err := doc.XPathFirst("//missing")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if node != nil {
		t.Error("XPathFirst should return nil for no match")
	}
}

// TestFormat verifies XML pretty-printing.
func TestFormat(t *testing.T) {
	xmlData := `<?xml version="1.0"?><root><child attr="val">text</child></root>`

	formatted, err := Format([]byte(xmlData), FormatOptions{Indent: "  "})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	// Should have newlines and indentation
	if !strings.Contains(string(formatted), "\n") {
		t.Error("Formatted XML should contain newlines")
	}
	if !strings.Contains(string(formatted), "  ") {
		t.Error("Formatted XML should contain indentation")
	}
}

// TestFormatWithTabs verifies tab indentation.
func TestFormatWithTabs(t *testing.T) {
	xmlData := `<root><child/></root>`

	formatted, err := Format([]byte(xmlData), FormatOptions{Indent: "\t"})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	if !strings.Contains(string(formatted), "\t") {
		t.Error("Formatted XML should contain tabs")
	}
}

// TestFormatPreservesContent verifies content is preserved during formatting.
func TestFormatPreservesContent(t *testing.T) {
	xmlData := `<root><message>Hello &amp; World</message></root>`

	formatted, err := Format([]byte(xmlData), FormatOptions{Indent: "  "})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	if !strings.Contains(string(formatted), "Hello &amp; World") {
		t.Error("Formatted XML should preserve entity references")
	}
}

// TestFormatInvalidXML verifies Format propagates parse errors.
func TestFormatInvalidXML(t *testing.T) {
	_, err := Format([]byte("<root><child></root>"), FormatOptions{})
	if err == nil {
		t.Error("Format should fail for invalid XML")
	}
}

// TestDocumentRoot verifies root element access.
func TestDocumentRoot(t *testing.T) {
	xmlData := `<?xml version="1.0"?><root attr="value"><child/></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	root := doc.Root()
	if root == nil {
		t.Fatal("Root should not be nil")
	}

	if root.Name() != "root" {
		t.Errorf("Root name = %q, want %q", root.Name(), "root")
	}
}

// TestNodeChildren verifies child node access.
func TestNodeChildren(t *testing.T) {
	xmlData := `<parent><child1/><child2/><child3/></parent>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	children := doc.Root().Children()
	if len(children) != 3 {
		t.Errorf("Should have 3 children, got %d", len(children))
	}
}

// TestNodeAttributes verifies attribute access.
func TestNodeAttributes(t *testing.T) {
	xmlData := `<element id="123" class="test" data-value="abc"/>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	attrs := doc.Root().Attributes()
	if len(attrs) != 3 {
		t.Errorf("Should have 3 attributes, got %d", len(attrs))
	}

	if doc.Root().Attr("id") != "123" {
		t.Errorf("Attr(id) = %q, want %q", doc.Root().Attr("id"), "123")
	}

	if doc.Root().Attr("missing") != "" {
		t.Error("Attr on a missing name should return empty string")
	}
}

// TestNodeNamespace verifies namespace URI resolution on elements,
// which metadata extraction depends on.
func TestNodeNamespace(t *testing.T) {
	xmlData := `<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
	<dc:title>Sample</dc:title>
</metadata>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	children := doc.Root().Children()
	if len(children) != 1 {
		t.Fatalf("should have 1 child, got %d", len(children))
	}

	title := children[0]
	if title.Name() != "title" {
		t.Errorf("Name = %q, want local name %q", title.Name(), "title")
	}
	if title.Prefix() != "dc" {
		t.Errorf("Prefix = %q, want %q", title.Prefix(), "dc")
	}
	if title.Namespace() != "http://purl.org/dc/elements/1.1/" {
		t.Errorf("Namespace = %q", title.Namespace())
	}
}

// TestNodeInnerText verifies inner text extraction.
func TestNodeInnerText(t *testing.T) {
	xmlData := `<root>Hello <b>World</b>!</root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text := doc.Root().InnerText()
	if text != "Hello World!" {
		t.Errorf("InnerText = %q, want %q", text, "Hello World!")
	}
}

// TestNodeInnerXML verifies inner XML extraction.
func TestNodeInnerXML(t *testing.T) {
	xmlData := `<root>Hello <b>World</b>!</root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	innerXML := doc.Root().InnerXML()
	if !strings.Contains(innerXML, "<b>World</b>") {
		t.Errorf("InnerXML should contain markup: %q", innerXML)
	}
}

// TestNodeXML verifies self-inclusive serialization.
func TestNodeXML(t *testing.T) {
	xmlData := `<root><spine toc="ncx"><itemref idref="ch1"/></spine></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	spine, err := doc.XPathFirst("//spine")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}

	out := spine.XML()
	if !strings.HasPrefix(out, "<spine") {
		t.Errorf("XML should include the element itself: %q", out)
	}
	if !strings.Contains(out, `idref="ch1"`) {
		t.Errorf("XML should include children: %q", out)
	}
}

// TestNamespaceHandling verifies namespace support.
func TestNamespaceHandling(t *testing.T) {
	xmlData := `<root xmlns:ns="http://example.com"><ns:child/></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Should parse without error
	if doc.Root() == nil {
		t.Error("Document should have root element")
	}
}

// TestCDATAHandling verifies CDATA section handling.
func TestCDATAHandling(t *testing.T) {
	xmlData := `<root><![CDATA[<not>xml</not>]]></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text := doc.Root().InnerText()
	if !strings.Contains(text, "<not>xml</not>") {
		t.Errorf("CDATA content should be preserved: %q", text)
	}
}

// TestCommentHandling verifies XML comment handling.
func TestCommentHandling(t *testing.T) {
	xmlData := `<root><!-- comment --><child/></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Comments should not affect parsing
	children := doc.Root().Children()
	if len(children) != 1 {
		t.Errorf("Should have 1 child element (comments excluded), got %d", len(children))
	}
}

// TestSerialize verifies XML serialization.
func TestSerialize(t *testing.T) {
	xmlData := `<root attr="value"><child>text</child></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	output := doc.Serialize()
	if !strings.Contains(string(output), "attr=\"value\"") {
		t.Error("Serialized XML should contain attribute")
	}
	if !strings.Contains(string(output), "<child>text</child>") {
		t.Error("Serialized XML should contain child element")
	}
}

// TestNodeDescendants verifies depth-first descendant traversal.
func TestNodeDescendants(t *testing.T) {
	xmlData := `<root><a><b>text</b></a><c/></root>`

	doc, err := Parse([]byte(xmlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	descendants := doc.Root().Descendants()
	names := make([]string, len(descendants))
	for i, d := range descendants {
		names[i] = d.Name()
	}

	want := []string{"a", "b", "c"}
	if len(names) != len(want) {
		t.Fatalf("Descendants returned %d nodes, want %d: %v", len(names), len(want), names)
	}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("descendant %d = %q, want %q", i, names[i], w)
		}
	}
}
