package epub

import (
	"sync"

	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/internal/logging"
)

// memo caches a lazily computed value together with its error, so a failed
// parse propagates on every later access without being retried.
type memo[T any] struct {
	done bool
	val  T
	err  error
}

func (m *memo[T]) resolve(f func() (T, error)) (T, error) {
	if !m.done {
		m.val, m.err = f()
		m.done = true
	}
	return m.val, m.err
}

// Document is the entry point for reading a publication. Every accessor
// parses lazily on first use and memoizes the result; parsing the container
// never touches the package document, and so on down the chain.
//
// A Document is safe for concurrent use. Close releases the underlying
// archive.
type Document struct {
	path    string
	archive *Archive

	mu        sync.Mutex
	container memo[*Container]
	pkg       memo[*Package]
	toc       memo[*TocDocument]
	ncx       memo[*TocDocument]
	nav       memo[*TocDocument]
}

// Open opens the EPUB file at path. No parsing happens until an accessor is
// called.
func Open(path string) (*Document, error) {
	a, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	return &Document{path: path, archive: a}, nil
}

// Path returns the filesystem path the publication was opened from.
func (d *Document) Path() string {
	return d.path
}

// Close releases the underlying archive.
func (d *Document) Close() error {
	return d.archive.Close()
}

// Container returns the parsed container descriptor.
func (d *Document) Container() (*Container, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.containerLocked()
}

func (d *Document) containerLocked() (*Container, error) {
	return d.container.resolve(func() (*Container, error) {
		data, err := d.archive.Read(ContainerPath)
		if err != nil {
			return nil, errors.Wrap(err, "reading container descriptor")
		}
		c, err := parseContainer(data)
		if err != nil {
			return nil, err
		}
		logging.ParseStage("container", ContainerPath)
		return c, nil
	})
}

// Package returns the parsed package document, resolving the container
// first if needed.
func (d *Document) Package() (*Package, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.packageLocked()
}

func (d *Document) packageLocked() (*Package, error) {
	return d.pkg.resolve(func() (*Package, error) {
		c, err := d.containerLocked()
		if err != nil {
			return nil, err
		}
		data, err := d.archive.Read(c.RootfilePath)
		if err != nil {
			return nil, errors.Wrap(err, "reading package document")
		}
		p, err := parsePackage(data, c.RootfilePath)
		if err != nil {
			return nil, err
		}
		logging.ParseStage("package", c.RootfilePath)
		return p, nil
	})
}

// Metadata returns the package metadata.
func (d *Document) Metadata() (*Metadata, error) {
	p, err := d.Package()
	if err != nil {
		return nil, err
	}
	return p.Metadata, nil
}

// Manifest returns the package manifest.
func (d *Document) Manifest() (*Manifest, error) {
	p, err := d.Package()
	if err != nil {
		return nil, err
	}
	return p.Manifest, nil
}

// Spine returns the package spine.
func (d *Document) Spine() (*Spine, error) {
	p, err := d.Package()
	if err != nil {
		return nil, err
	}
	return p.Spine, nil
}

// Toc returns the automatically selected table of contents. A nil document
// with a nil error means the publication has none.
func (d *Document) Toc() (*TocDocument, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tocLocked(tocModeAuto, &d.toc)
}

// Ncx returns the NCX table of contents regardless of version preference.
// A nil document with a nil error means the publication has no NCX.
func (d *Document) Ncx() (*TocDocument, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tocLocked(tocModeNcx, &d.ncx)
}

// Nav returns the EPUB 3 navigation document table of contents. A nil
// document with a nil error means the publication has none.
func (d *Document) Nav() (*TocDocument, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tocLocked(tocModeNav, &d.nav)
}

func (d *Document) tocLocked(mode tocMode, slot *memo[*TocDocument]) (*TocDocument, error) {
	return slot.resolve(func() (*TocDocument, error) {
		p, err := d.packageLocked()
		if err != nil {
			return nil, err
		}
		return resolveToc(d.archive, p, mode)
	})
}

// ResolveToc returns the table of contents from the forced source, or from
// automatic selection when neither force flag is set. Forcing both sources
// at once is rejected.
func (d *Document) ResolveToc(forceNcx, forceNav bool) (*TocDocument, error) {
	switch {
	case forceNcx && forceNav:
		return nil, errors.NewInvalidArgument("toc source", "cannot force both NCX and navigation document")
	case forceNcx:
		return d.Ncx()
	case forceNav:
		return d.Nav()
	default:
		return d.Toc()
	}
}

// ContentByID loads the resource the manifest item with the given ID points
// at.
func (d *Document) ContentByID(id string) (*ContentItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := d.packageLocked()
	if err != nil {
		return nil, err
	}
	return contentByID(d.archive, p, id)
}

// ContentByPath loads an archive member directly, without consulting the
// manifest. The path is relative to the archive root.
func (d *Document) ContentByPath(archivePath string) (*ContentItem, error) {
	return contentByPath(d.archive, archivePath)
}

// FilesInfo returns the non-directory archive members sorted by path.
func (d *Document) FilesInfo() []Member {
	return d.archive.FilesInfo()
}

// Digest returns the lowercase hex BLAKE3 digest of an archive member.
func (d *Document) Digest(member string) (string, error) {
	return d.archive.Digest(member)
}

// Has reports whether the archive contains member.
func (d *Document) Has(member string) bool {
	return d.archive.Has(member)
}
