// Package file implements the local filesystem source of the call-response
// CSV, plus small helpers for line-based list files.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"firecalls/internal/datasource"
)

// Local opens a file on the local disk.
type Local struct{ path string }

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a Local bound to path. The file is not touched until Open.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured path.
func (l *Local) Path() string { return l.path }

// Open returns the file for reading. A done context short-circuits before the
// filesystem is touched. Errors wrap the *PathError so errors.Is(err,
// os.ErrNotExist) keeps working.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Stamp identifies one version of the file by size and modification time.
type Stamp struct {
	Size    int64
	ModTime time.Time
}

// Stat returns the current Stamp of the file.
func (l *Local) Stat() (Stamp, error) {
	fi, err := os.Stat(l.path)
	if err != nil {
		return Stamp{}, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if fi.IsDir() {
		return Stamp{}, fmt.Errorf("stat %s: is a directory", l.path)
	}
	return Stamp{Size: fi.Size(), ModTime: fi.ModTime()}, nil
}
