// Command folio inspects EPUB publications from the command line.
// It exposes the container descriptor, package document, table of contents,
// and archive members in several output formats.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/folio/core/epub"
	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/internal/logging"
	"github.com/FocuswithJustin/folio/internal/render"
)

const version = "0.2.0"

// CLI defines the command-line interface for folio.
var CLI struct {
	// Global flags
	Verbose bool   `help:"Enable debug logging" short:"v"`
	Color   string `help:"Colorize output: auto, always, or never" enum:"auto,always,never" default:"auto"`

	Container ContainerCmd `cmd:"" help:"Show the OCF container descriptor"`
	Package   PackageCmd   `cmd:"" help:"Show the package document"`
	Metadata  MetadataCmd  `cmd:"" help:"Show the package metadata"`
	Manifest  ManifestCmd  `cmd:"" help:"Show the package manifest"`
	Spine     SpineCmd     `cmd:"" help:"Show the package spine"`
	Toc       TocCmd       `cmd:"" help:"Show the table of contents"`
	Content   ContentCmd   `cmd:"" help:"Show a content document by manifest id"`
	Files     FilesCmd     `cmd:"" help:"List archive members or show one by path"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// outputFlags are shared by the document inspection commands.
type outputFlags struct {
	Format      string `help:"Output format" enum:"xml,raw,kv,plain,table" default:"xml"`
	PrettyPrint bool   `name:"pretty-print" help:"Pretty-print XML output"`
}

// ContainerCmd shows the OCF container descriptor.
type ContainerCmd struct {
	Path string `arg:"" help:"Path to the EPUB file" type:"path"`
	outputFlags
}

func (c *ContainerCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	container, err := doc.Container()
	if err != nil {
		return err
	}

	switch c.Format {
	case "xml":
		src, err := container.XML(c.PrettyPrint)
		if err != nil {
			return err
		}
		return emitXML(src)
	case "raw":
		return emitRaw(container.Raw())
	case "kv":
		return emit(container.KV())
	default:
		return unsupportedFormat(c.Format, "container")
	}
}

// PackageCmd shows the package document.
type PackageCmd struct {
	Path string `arg:"" help:"Path to the EPUB file" type:"path"`
	outputFlags
}

func (c *PackageCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	pkg, err := doc.Package()
	if err != nil {
		return err
	}

	switch c.Format {
	case "xml":
		src, err := pkg.XML(c.PrettyPrint)
		if err != nil {
			return err
		}
		return emitXML(src)
	case "raw":
		return emitRaw(pkg.Raw())
	case "kv":
		return emit(pkg.KV())
	default:
		return unsupportedFormat(c.Format, "package")
	}
}

// MetadataCmd shows the package metadata.
type MetadataCmd struct {
	Path string `arg:"" help:"Path to the EPUB file" type:"path"`
	outputFlags
}

func (c *MetadataCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	meta, err := doc.Metadata()
	if err != nil {
		return err
	}

	switch c.Format {
	case "xml":
		src, err := meta.XML(c.PrettyPrint)
		if err != nil {
			return err
		}
		return emitXML(src)
	case "raw":
		return emitRaw(meta.Raw())
	case "kv":
		return emit(meta.KV())
	default:
		return unsupportedFormat(c.Format, "metadata")
	}
}

// ManifestCmd shows the package manifest.
type ManifestCmd struct {
	Path string `arg:"" help:"Path to the EPUB file" type:"path"`
	outputFlags
}

func (c *ManifestCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	man, err := doc.Manifest()
	if err != nil {
		return err
	}

	switch c.Format {
	case "xml":
		src, err := man.XML(c.PrettyPrint)
		if err != nil {
			return err
		}
		return emitXML(src)
	case "raw":
		return emitRaw(man.Raw())
	case "kv":
		return emit(man.KV())
	default:
		return unsupportedFormat(c.Format, "manifest")
	}
}

// SpineCmd shows the package spine.
type SpineCmd struct {
	Path string `arg:"" help:"Path to the EPUB file" type:"path"`
	outputFlags
}

func (c *SpineCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	spine, err := doc.Spine()
	if err != nil {
		return err
	}

	switch c.Format {
	case "xml":
		src, err := spine.XML(c.PrettyPrint)
		if err != nil {
			return err
		}
		return emitXML(src)
	case "raw":
		return emitRaw(spine.Raw())
	case "kv":
		return emit(spine.KV())
	default:
		return unsupportedFormat(c.Format, "spine")
	}
}

// TocCmd shows the table of contents.
type TocCmd struct {
	Path string `arg:"" help:"Path to the EPUB file" type:"path"`
	outputFlags
	Ncx bool `help:"Force the legacy NCX table of contents" xor:"source"`
	Nav bool `help:"Force the EPUB 3 navigation document" xor:"source"`
}

func (c *TocCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	toc, err := doc.ResolveToc(c.Ncx, c.Nav)
	if err != nil {
		return err
	}
	if toc == nil {
		switch {
		case c.Ncx:
			return errors.NewNotFound("NCX table of contents", c.Path)
		case c.Nav:
			return errors.NewNotFound("navigation document", c.Path)
		default:
			fmt.Fprintln(os.Stderr, "no table of contents found")
			return nil
		}
	}

	switch c.Format {
	case "xml":
		src, err := toc.XML(c.PrettyPrint)
		if err != nil {
			return err
		}
		return emitXML(src)
	case "raw":
		return emitRaw(toc.Raw())
	case "plain":
		return emit(toc.Plain())
	default:
		return unsupportedFormat(c.Format, "toc")
	}
}

// ContentCmd shows a content document by manifest id.
type ContentCmd struct {
	Path string `arg:"" help:"Path to the EPUB file" type:"path"`
	ID   string `arg:"" help:"Manifest item id"`
	outputFlags
}

func (c *ContentCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	item, err := doc.ContentByID(c.ID)
	if err != nil {
		return err
	}

	return emitContent(item, c.Format, c.PrettyPrint)
}

// FilesCmd lists archive members, or shows a single member by path.
type FilesCmd struct {
	Path        string `arg:"" help:"Path to the EPUB file" type:"path"`
	Member      string `arg:"" optional:"" help:"Archive member path to show"`
	Format      string `help:"Output format" enum:"xml,raw,kv,plain,table" default:"table"`
	PrettyPrint bool   `name:"pretty-print" help:"Pretty-print XML output"`
	Digest      bool   `help:"Include BLAKE3 digests in the listing"`
}

func (c *FilesCmd) Run() error {
	doc, err := epub.Open(c.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	if c.Member != "" {
		item, err := doc.ContentByPath(c.Member)
		if err != nil {
			return err
		}
		format := c.Format
		if format == "table" {
			format = "xml"
		}
		return emitContent(item, format, c.PrettyPrint)
	}

	members := doc.FilesInfo()
	switch c.Format {
	case "table":
		header := []string{"Path", "Size", "Compressed", "Modified"}
		if c.Digest {
			header = append(header, "BLAKE3")
		}
		rows := make([][]string, 0, len(members))
		for _, m := range members {
			row := []string{m.Path, render.Size(m.Size), render.Size(m.CompressedSize), render.Timestamp(m.Modified)}
			if c.Digest {
				digest, err := doc.Digest(m.Path)
				if err != nil {
					return err
				}
				row = append(row, digest)
			}
			rows = append(rows, row)
		}
		render.Table(os.Stdout, header, rows)
		return nil
	case "plain":
		for _, m := range members {
			fmt.Println(m.Path)
		}
		return nil
	default:
		return unsupportedFormat(c.Format, "files listing")
	}
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("folio %s\n", version)
	return nil
}

// emitContent renders a loaded content item in the requested format.
func emitContent(item *epub.ContentItem, format string, pretty bool) error {
	switch format {
	case "xml":
		src, err := item.XML(pretty)
		if err != nil {
			return err
		}
		return emitXML(src)
	case "raw":
		return emitRaw(item.Raw())
	case "plain":
		if !item.SupportsPlainText() {
			return errors.NewInvalidArgument("--format",
				fmt.Sprintf("plain text is not supported for media type %q", item.MediaType))
		}
		return emit(item.PlainText())
	default:
		return unsupportedFormat(format, "content")
	}
}

func emitXML(src string) error {
	color := render.ColorEnabled(render.ColorMode(CLI.Color), os.Stdout)
	return render.XML(os.Stdout, ensureNewline(src), color)
}

func emitRaw(data []byte) error {
	return emit(string(data))
}

func emit(s string) error {
	_, err := os.Stdout.WriteString(ensureNewline(s))
	return err
}

func ensureNewline(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}

func unsupportedFormat(format, command string) error {
	return errors.NewInvalidArgument("--format",
		fmt.Sprintf("format %q is not supported for %s output", format, command))
}

func main() {
	parser, err := kong.New(&CLI,
		kong.Name("folio"),
		kong.Description("Inspect the structure of EPUB publications"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.Errorf("%s", err)
		os.Exit(2)
	}

	if CLI.Verbose {
		logging.InitLogger(logging.LevelDebug, logging.FormatText)
	}

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "folio: %s\n", err)
		os.Exit(1)
	}
}
