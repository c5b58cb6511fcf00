// Package distribution locates the layout and data files of one NASR
// subscription cycle. Each record family FAM ships as a layout description
// FAM_rf.txt and a data file FAM.txt in the same directory.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/couchcryptid/nasr-etl/internal/layout"
)

const (
	layoutSuffix = "_rf.txt"
	dataSuffix   = ".txt"
)

// ErrFamilyNotFound is returned when a family has no layout or data file.
var ErrFamilyNotFound = errors.New("record family not found")

// LayoutName returns the layout-description file name for family.
func LayoutName(family string) string { return family + layoutSuffix }

// DataName returns the data file name for family.
func DataName(family string) string { return family + dataSuffix }

// Distribution gives access to the files of one cycle.
type Distribution interface {
	// Families lists the record families that have both files, sorted.
	Families(ctx context.Context) ([]string, error)
	// Open opens a file of the distribution by name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Directory is a Distribution backed by a file system tree.
type Directory struct {
	fsys fs.FS
}

// NewDirectory serves the distribution unpacked at root.
func NewDirectory(root string) *Directory {
	return &Directory{fsys: os.DirFS(root)}
}

// FromFS serves a distribution from any fs.FS, such as fstest.MapFS in tests.
func FromFS(fsys fs.FS) *Directory {
	return &Directory{fsys: fsys}
}

// Families lists the families with both a layout and a data file at the
// top level of the directory.
func (d *Directory) Families(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list distribution: %w", err)
	}

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[e.Name()] = true
		}
	}

	var families []string
	for name := range names {
		family, ok := strings.CutSuffix(name, layoutSuffix)
		if !ok || family == "" {
			continue
		}
		if names[DataName(family)] {
			families = append(families, family)
		}
	}
	sort.Strings(families)
	return families, nil
}

// Open opens name. A missing file is ErrFamilyNotFound.
func (d *Directory) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := d.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFamilyNotFound, name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// LoadLayout opens and parses the layout description of family, and checks
// its tables against the record length the file declares.
func LoadLayout(ctx context.Context, dist Distribution, family string) (*layout.Layout, error) {
	rc, err := dist.Open(ctx, LayoutName(family))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	l, err := layout.Load(family, rc)
	if err != nil {
		return nil, err
	}
	if err := l.ValidateDeclared(); err != nil {
		return nil, err
	}
	return l, nil
}

// OpenData opens the data file of family. The returned reader counts the
// bytes consumed so callers can report progress.
func OpenData(ctx context.Context, dist Distribution, family string) (*CountingReader, error) {
	rc, err := dist.Open(ctx, DataName(family))
	if err != nil {
		return nil, err
	}
	return &CountingReader{rc: rc}, nil
}

// CountingReader wraps a data file and tracks how many bytes were read.
// BytesRead is safe to call from other goroutines.
type CountingReader struct {
	rc io.ReadCloser
	n  atomic.Int64
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func (c *CountingReader) Close() error { return c.rc.Close() }

// BytesRead returns the number of bytes consumed so far.
func (c *CountingReader) BytesRead() int64 { return c.n.Load() }
