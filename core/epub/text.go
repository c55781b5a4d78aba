package epub

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// skipText lists elements whose contents never appear in extracted text.
var skipText = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

// extractText strips markup from HTML or XHTML bytes and returns the
// whitespace-normalized text. Extraction is best effort: malformed input
// yields whatever text the tokenizer recovers, and non-UTF-8 input is
// decoded via its declared or sniffed charset.
func extractText(data []byte) string {
	var r io.Reader = bytes.NewReader(data)
	if cr, err := charset.NewReader(bytes.NewReader(data), ""); err == nil {
		r = cr
	}

	z := html.NewTokenizer(r)
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return normalizeSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipText[atom.Lookup(name)] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipText[atom.Lookup(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// normalizeSpace collapses runs of whitespace to single spaces and trims
// the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
