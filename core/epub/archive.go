// Package epub reads EPUB publications without rendering them. It opens the
// OCF ZIP container, walks the container descriptor to the package document,
// and exposes metadata, manifest, spine, table of contents, and member
// content through a lazy Document facade.
//
// Parsing is read-only and structural. Nothing here validates publications
// against the EPUB specifications; malformed but recoverable input is
// tolerated wherever possible.
package epub

import (
	"archive/zip"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/folio/core/errors"
	"github.com/FocuswithJustin/folio/internal/logging"
)

// Member describes a single entry in the EPUB container.
type Member struct {
	Path           string
	Size           int64
	CompressedSize int64
	Modified       time.Time
	Dir            bool
}

// Archive is an open EPUB container. It indexes members by their exact
// stored path and by a cleaned form, so lookups tolerate "./" prefixes and
// backslash separators.
type Archive struct {
	path    string
	reader  *zip.ReadCloser
	exact   map[string]*zip.File
	cleaned map[string]*zip.File
	members []Member
}

// OpenArchive opens the EPUB file at p and indexes its members. The caller
// owns the returned Archive and must Close it.
func OpenArchive(p string) (*Archive, error) {
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFound("EPUB file", p)
		}
		return nil, errors.NewIO("stat", p, err)
	}

	r, err := zip.OpenReader(p)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, errors.NewParse("EPUB container", p, "not a ZIP archive")
		}
		return nil, errors.NewIO("open", p, err)
	}

	a := &Archive{
		path:    p,
		reader:  r,
		exact:   make(map[string]*zip.File, len(r.File)),
		cleaned: make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		a.exact[f.Name] = f
		a.cleaned[normalizeMemberPath(f.Name)] = f
		a.members = append(a.members, Member{
			Path:           f.Name,
			Size:           int64(f.UncompressedSize64),
			CompressedSize: int64(f.CompressedSize64),
			Modified:       f.Modified,
			Dir:            f.FileInfo().IsDir(),
		})
	}

	logging.ArchiveOpen(p, len(a.members))
	return a, nil
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Close releases the underlying ZIP reader.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// Has reports whether member exists in the archive.
func (a *Archive) Has(member string) bool {
	_, ok := a.lookup(member)
	return ok
}

// Read returns the full contents of member. Missing members yield a
// NotFoundError.
func (a *Archive) Read(member string) ([]byte, error) {
	f, ok := a.lookup(member)
	if !ok {
		return nil, errors.NewNotFound("archive member", member)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.NewIO("open member", member, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.NewIO("read member", member, err)
	}
	return data, nil
}

// Members returns a snapshot of every archive entry, directories included,
// in stored order.
func (a *Archive) Members() []Member {
	out := make([]Member, len(a.members))
	copy(out, a.members)
	return out
}

// FilesInfo returns the non-directory members sorted by path.
func (a *Archive) FilesInfo() []Member {
	var out []Member
	for _, m := range a.members {
		if m.Dir || strings.HasSuffix(m.Path, "/") {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Digest returns the lowercase hex BLAKE3 digest of member's contents.
func (a *Archive) Digest(member string) (string, error) {
	data, err := a.Read(member)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (a *Archive) lookup(member string) (*zip.File, bool) {
	if f, ok := a.exact[member]; ok {
		return f, true
	}
	f, ok := a.cleaned[normalizeMemberPath(member)]
	return f, ok
}

// normalizeMemberPath flattens separator variants so that "./OEBPS\ch1.xhtml"
// and "OEBPS/ch1.xhtml" address the same member.
func normalizeMemberPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}
