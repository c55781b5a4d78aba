package epub

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/core/xml"
)

const (
	// ContainerPath is the fixed location of the OCF container descriptor.
	ContainerPath = "META-INF/container.xml"

	// PackageMediaType is the media type a rootfile entry declares for the
	// package document.
	PackageMediaType = "application/oebps-package+xml"
)

// Container is the parsed OCF container descriptor. It records which
// rootfile entry was selected as the package document.
type Container struct {
	// RootfilePath is the archive path of the selected package document.
	RootfilePath string

	// MediaType is the media type declared on the selected rootfile entry.
	MediaType string

	raw []byte
}

// parseContainer parses the container descriptor bytes. When several
// rootfile entries are present, the first one declaring the package media
// type wins; with no such entry the first rootfile wins.
func parseContainer(data []byte) (*Container, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.NewParse("container", ContainerPath, err.Error())
	}

	nodes, err := doc.XPath("//*[local-name()='rootfile']")
	if err != nil {
		return nil, errors.NewParse("container", ContainerPath, err.Error())
	}

	var selected *xml.Node
	for _, n := range nodes {
		if n.Attr("full-path") == "" {
			continue
		}
		if selected == nil {
			selected = n
		}
		if n.Attr("media-type") == PackageMediaType {
			selected = n
			break
		}
	}
	if selected == nil {
		return nil, errors.NewParse("container", ContainerPath, "no rootfile entry with a full-path attribute")
	}

	return &Container{
		RootfilePath: selected.Attr("full-path"),
		MediaType:    selected.Attr("media-type"),
		raw:          data,
	}, nil
}

// Raw returns the container descriptor bytes as stored in the archive.
func (c *Container) Raw() []byte {
	return c.raw
}

// XML renders the descriptor, optionally pretty-printed.
func (c *Container) XML(pretty bool) (string, error) {
	if !pretty {
		return string(c.raw), nil
	}
	out, err := xml.Format(c.raw, xml.FormatOptions{})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// KV renders the descriptor as key-value lines.
func (c *Container) KV() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rootfile-path: %s\n", c.RootfilePath)
	fmt.Fprintf(&b, "media-type: %s\n", c.MediaType)
	return b.String()
}

// PackageDir returns the directory prefix that manifest hrefs are resolved
// against, empty when the package document sits at the archive root.
func (c *Container) PackageDir() string {
	return packageDir(c.RootfilePath)
}
