// Package epubtest builds throwaway EPUB containers for tests. Fixtures
// are assembled from plain path-to-content maps, so a test can start from
// one of the canned publications and add, replace, or remove members before
// building.
package epubtest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// Mimetype is the content of the required mimetype member.
const Mimetype = "application/epub+zip"

// fixedTime keeps member timestamps deterministic across builds.
var fixedTime = time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)

// BuildBytes assembles an EPUB container in memory. The mimetype member,
// when present, is written first and uncompressed as the container format
// requires; remaining members follow in sorted order.
func BuildBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	write := func(name string, method uint16, content string) {
		f, err := w.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   method,
			Modified: fixedTime,
		})
		if err != nil {
			t.Fatalf("create member %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write member %s: %v", name, err)
		}
	}

	if content, ok := files["mimetype"]; ok {
		write("mimetype", zip.Store, content)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		if name != "mimetype" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		write(name, zip.Deflate, files[name])
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close container: %v", err)
	}
	return buf.Bytes()
}

// Build writes an EPUB container to a temp file and returns its path.
func Build(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "book.epub")
	if err := os.WriteFile(path, BuildBytes(t, files), 0o644); err != nil {
		t.Fatalf("write epub: %v", err)
	}
	return path
}

// EPUB2Files returns a minimal EPUB 2 publication rooted at OEBPS/, with an
// NCX table of contents and two chapters.
func EPUB2Files() map[string]string {
	return map[string]string{
		"mimetype":               Mimetype,
		"META-INF/container.xml": EPUB2Container,
		"OEBPS/content.opf":      EPUB2Package,
		"OEBPS/toc.ncx":          EPUB2Ncx,
		"OEBPS/chapter1.xhtml":   Chapter1,
		"OEBPS/chapter2.xhtml":   Chapter2,
		"OEBPS/style.css":        Stylesheet,
	}
}

// EPUB3Files returns a minimal EPUB 3 publication rooted at EPUB/, carrying
// both a navigation document and a legacy NCX.
func EPUB3Files() map[string]string {
	return map[string]string{
		"mimetype":               Mimetype,
		"META-INF/container.xml": EPUB3Container,
		"EPUB/package.opf":       EPUB3Package,
		"EPUB/nav.xhtml":         EPUB3Nav,
		"EPUB/toc.ncx":           EPUB3Ncx,
		"EPUB/chapter1.xhtml":    Chapter1,
		"EPUB/chapter2.xhtml":    Chapter2,
	}
}

// Canned member contents. The two publications share chapter files so
// content assertions work against either.
const (
	EPUB2Container = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

	EPUB2Package = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
    <dc:title>The Voyage Home</dc:title>
    <dc:creator opf:role="aut">Ada Quill</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="bookid">urn:uuid:9a8e7f60-4c41-4a5e-9c3a-0f2a6d2b4c1d</dc:identifier>
    <dc:publisher>Harbor Press</dc:publisher>
    <dc:date>2019-06-01</dc:date>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>
`

	EPUB2Ncx = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="urn:uuid:9a8e7f60-4c41-4a5e-9c3a-0f2a6d2b4c1d"/>
  </head>
  <docTitle>
    <text>The Voyage Home</text>
  </docTitle>
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Chapter One</text></navLabel>
      <content src="chapter1.xhtml"/>
      <navPoint id="np1a" playOrder="2">
        <navLabel><text>A Section</text></navLabel>
        <content src="chapter1.xhtml#s1"/>
      </navPoint>
    </navPoint>
    <navPoint id="np2" playOrder="3">
      <navLabel><text>Chapter Two</text></navLabel>
      <content src="chapter2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>
`

	EPUB3Container = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="EPUB/package.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

	EPUB3Package = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="pub-id" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Field Notes</dc:title>
    <dc:creator>R. Marsh</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="pub-id">urn:isbn:9780000000001</dc:identifier>
    <meta property="dcterms:modified">2024-05-14T10:30:00Z</meta>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2" linear="no"/>
  </spine>
</package>
`

	EPUB3Nav = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>Contents</title></head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>Contents</h1>
    <ol>
      <li><a href="chapter1.xhtml">Chapter One</a>
        <ol>
          <li><a href="chapter1.xhtml#s1">First Section</a></li>
        </ol>
      </li>
      <li><a href="chapter2.xhtml">Chapter Two</a></li>
    </ol>
  </nav>
</body>
</html>
`

	EPUB3Ncx = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="urn:isbn:9780000000001"/>
  </head>
  <docTitle>
    <text>Field Notes</text>
  </docTitle>
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Chapter One</text></navLabel>
      <content src="chapter1.xhtml"/>
    </navPoint>
    <navPoint id="np2" playOrder="2">
      <navLabel><text>Chapter Two</text></navLabel>
      <content src="chapter2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>
`

	Chapter1 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter One</title></head>
<body>
  <h1>Chapter One</h1>
  <p>Hello <b>world</b></p>
</body>
</html>
`

	Chapter2 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter Two</title></head>
<body>
  <h1>Chapter Two</h1>
  <p>The harbor lights faded behind them.</p>
</body>
</html>
`

	Stylesheet = `body { margin: 0; }
`
)
