// Package render holds the terminal output helpers shared by the CLI
// commands: color detection, XML syntax highlighting, tables, and value
// formatting.
package render

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// ColorMode is the tri-state color preference from the command line.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// highlightStyle is the chroma style used for XML output.
const highlightStyle = "monokai"

// ColorEnabled decides whether w should receive ANSI colors. An explicit
// mode wins, then the FORCE_COLOR and NO_COLOR environment variables, then
// terminal detection on w.
func ColorEnabled(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if v, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return v != "0"
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// XML writes src to w, syntax highlighted when color is on. Sources that
// fail to highlight are written unchanged.
func XML(w io.Writer, src string, color bool) error {
	if color {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, src, "xml", "terminal256", highlightStyle); err == nil {
			_, err = w.Write(buf.Bytes())
			return err
		}
	}
	_, err := io.WriteString(w, src)
	return err
}

// Table writes rows to w as an aligned text table.
func Table(w io.Writer, header []string, rows [][]string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetBorder(false)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.AppendBulk(rows)
	t.Render()
}

// Size renders a byte count in binary units.
func Size(n int64) string {
	return humanize.IBytes(uint64(n))
}

// Timestamp renders a member modification time for listings, empty for the
// zero time.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
