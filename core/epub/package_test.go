package epub

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/internal/epubtest"
)

// TestParsePackage verifies parsing of a complete package document.
func TestParsePackage(t *testing.T) {
	p, err := parsePackage([]byte(epubtest.EPUB2Package), "OEBPS/content.opf")
	if err != nil {
		t.Fatalf("parsePackage() error = %v", err)
	}

	if p.Version != "2.0" {
		t.Errorf("Version = %q, want %q", p.Version, "2.0")
	}
	if p.Major != 2 || p.Minor != 0 {
		t.Errorf("resolved version = %d.%d, want 2.0", p.Major, p.Minor)
	}
	if p.Dir() != "OEBPS" {
		t.Errorf("Dir() = %q, want %q", p.Dir(), "OEBPS")
	}

	if p.Metadata.Title() != "The Voyage Home" {
		t.Errorf("Title() = %q, want %q", p.Metadata.Title(), "The Voyage Home")
	}
	if p.Manifest.Len() != 4 {
		t.Errorf("Manifest.Len() = %d, want 4", p.Manifest.Len())
	}
	if p.Spine.Len() != 2 {
		t.Errorf("Spine.Len() = %d, want 2", p.Spine.Len())
	}
	if p.Spine.Toc != "ncx" {
		t.Errorf("Spine.Toc = %q, want %q", p.Spine.Toc, "ncx")
	}
}

// TestParsePackageRootDir verifies href resolution for a package document
// at the archive root.
func TestParsePackageRootDir(t *testing.T) {
	p, err := parsePackage([]byte(epubtest.EPUB2Package), "content.opf")
	if err != nil {
		t.Fatalf("parsePackage() error = %v", err)
	}
	if p.Dir() != "" {
		t.Errorf("Dir() = %q, want empty for root package", p.Dir())
	}
}

// TestParsePackageVersionFallback verifies that missing or unparsable
// version attributes resolve to EPUB 2.
func TestParsePackageVersionFallback(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		wantMajor int
		wantMinor int
	}{
		{"declared 3.0", `version="3.0"`, 3, 0},
		{"declared 2.0", `version="2.0"`, 2, 0},
		{"major only", `version="3"`, 3, 0},
		{"patch version", `version="3.0.1"`, 3, 0},
		{"missing", ``, 2, 0},
		{"empty", `version=""`, 2, 0},
		{"garbage", `version="abc"`, 2, 0},
		{"negative", `version="-1"`, 2, 0},
		{"bad minor", `version="3.x"`, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `<package xmlns="http://www.idpf.org/2007/opf" ` + tt.version + `>
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>
  <manifest><item id="a" href="a.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="a"/></spine>
</package>`
			p, err := parsePackage([]byte(src), "content.opf")
			if err != nil {
				t.Fatalf("parsePackage() error = %v", err)
			}
			if p.Major != tt.wantMajor || p.Minor != tt.wantMinor {
				t.Errorf("resolved version = %d.%d, want %d.%d", p.Major, p.Minor, tt.wantMajor, tt.wantMinor)
			}
		})
	}
}

// TestParsePackageMissingSections verifies errors for absent required
// sections.
func TestParsePackageMissingSections(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "not a package document",
			src:     `<html><body/></html>`,
			wantMsg: "missing package root element",
		},
		{
			name:    "missing metadata",
			src:     `<package version="2.0"><manifest/><spine/></package>`,
			wantMsg: "missing metadata element",
		},
		{
			name:    "missing manifest",
			src:     `<package version="2.0"><metadata/><spine/></package>`,
			wantMsg: "missing manifest element",
		},
		{
			name:    "missing spine",
			src:     `<package version="2.0"><metadata/><manifest/></package>`,
			wantMsg: "missing spine element",
		},
		{
			name:    "malformed XML",
			src:     `<package version="2.0"><metadata>`,
			wantMsg: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePackage([]byte(tt.src), "content.opf")
			if err == nil {
				t.Fatal("parsePackage() expected error")
			}
			var pe *errors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *errors.ParseError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

// TestParseEpubVersion verifies version attribute splitting.
func TestParseEpubVersion(t *testing.T) {
	tests := []struct {
		in        string
		wantMajor int
		wantMinor int
		wantOK    bool
	}{
		{"2.0", 2, 0, true},
		{"3.0", 3, 0, true},
		{"3.2", 3, 2, true},
		{"3", 3, 0, true},
		{" 3.0 ", 3, 0, true},
		{"3.0.1", 3, 0, true},
		{"", 0, 0, false},
		{"abc", 0, 0, false},
		{"0", 0, 0, false},
		{"-2", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, ok := parseEpubVersion(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("parseEpubVersion(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && (major != tt.wantMajor || minor != tt.wantMinor) {
				t.Errorf("parseEpubVersion(%q) = %d.%d, want %d.%d", tt.in, major, minor, tt.wantMajor, tt.wantMinor)
			}
		})
	}
}

// TestPackageVersionString verifies declared and fallback rendering.
func TestPackageVersionString(t *testing.T) {
	declared := &Package{Version: "3.0", Major: 3, Minor: 0}
	if got := declared.VersionString(); got != "3.0" {
		t.Errorf("VersionString() = %q, want %q", got, "3.0")
	}

	fallback := &Package{Version: "", Major: 2, Minor: 0}
	if got := fallback.VersionString(); got != "2.0" {
		t.Errorf("VersionString() = %q, want %q", got, "2.0")
	}
}

// TestPackageKV verifies the combined key-value rendering.
func TestPackageKV(t *testing.T) {
	p, err := parsePackage([]byte(epubtest.EPUB2Package), "OEBPS/content.opf")
	if err != nil {
		t.Fatalf("parsePackage() error = %v", err)
	}

	kv := p.KV()
	for _, want := range []string{
		"version: 2.0",
		"title: The Voyage Home",
		"ncx: toc.ncx (application/x-dtbncx+xml)",
		"1: ch1",
	} {
		if !strings.Contains(kv, want) {
			t.Errorf("KV() missing %q\ngot:\n%s", want, kv)
		}
	}
}
