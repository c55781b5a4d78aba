package epub

import (
	"strings"
	"testing"
)

// TestExtractText verifies markup stripping and whitespace normalization.
func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inline markup",
			in:   `<p>Hello <b>world</b></p>`,
			want: "Hello world",
		},
		{
			name: "block elements joined by spaces",
			in:   `<div><p>First.</p><p>Second.</p></div>`,
			want: "First. Second.",
		},
		{
			name: "whitespace collapsed",
			in:   "<p>\n  spread \t across\n\nlines  </p>",
			want: "spread across lines",
		},
		{
			name: "entities decoded",
			in:   `<p>Fish &amp; Chips &lt;tonight&gt;</p>`,
			want: "Fish & Chips <tonight>",
		},
		{
			name: "full document",
			in: `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Ignored Title</title></head>
<body><h1>Heading</h1><p>Body text.</p></body>
</html>`,
			want: "Heading Body text.",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "no markup",
			in:   "just plain words",
			want: "just plain words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractText([]byte(tt.in)); got != tt.want {
				t.Errorf("extractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestExtractTextSkipsNonContent verifies script and style bodies are
// excluded.
func TestExtractTextSkipsNonContent(t *testing.T) {
	in := `<html><head>
<style>body { color: red; }</style>
<script>var hidden = "secret";</script>
</head>
<body><p>Visible text.</p><script>more()</script></body></html>`

	got := extractText([]byte(in))
	if got != "Visible text." {
		t.Errorf("extractText() = %q, want only visible text", got)
	}
	if strings.Contains(got, "secret") || strings.Contains(got, "color") {
		t.Errorf("extractText() leaked non-content text: %q", got)
	}
}

// TestExtractTextMalformed verifies best-effort extraction from broken
// markup.
func TestExtractTextMalformed(t *testing.T) {
	in := `<p>Recovered <b>text`
	if got := extractText([]byte(in)); got != "Recovered text" {
		t.Errorf("extractText() = %q, want %q", got, "Recovered text")
	}
}

// TestNormalizeSpace verifies whitespace collapsing.
func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  a  b  ", "a b"},
		{"a\n\tb", "a b"},
		{"", ""},
		{"   ", ""},
		{"already clean", "already clean"},
	}

	for _, tt := range tests {
		if got := normalizeSpace(tt.in); got != tt.want {
			t.Errorf("normalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
