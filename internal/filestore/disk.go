// Package filestore provides a domain.FileStore backed by a billy filesystem.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/msomdec/o2o-admin/internal/domain"
)

var _ domain.FileStore = (*Disk)(nil)

// Disk stores files on a billy filesystem. Keys are slash-separated paths
// relative to the filesystem root.
type Disk struct {
	fs billy.Filesystem
}

// NewDisk returns a Disk rooted at baseDir on the local filesystem.
func NewDisk(baseDir string) *Disk {
	return &Disk{fs: osfs.New(baseDir)}
}

// NewDiskFS wraps an existing filesystem, typically memfs in tests.
func NewDiskFS(fs billy.Filesystem) *Disk {
	return &Disk{fs: fs}
}

func (d *Disk) Save(_ context.Context, key string, data []byte) error {
	name := clean(key)
	if dir := path.Dir(name); dir != "." {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", key, err)
		}
	}
	if err := util.WriteFile(d.fs, name, data, 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", key, err)
	}
	return nil
}

func (d *Disk) Get(_ context.Context, key string) ([]byte, error) {
	f, err := d.fs.Open(clean(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("open file %s: %w", key, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the file at key, or the whole tree when key names a
// directory. Missing paths are not an error.
func (d *Disk) Delete(_ context.Context, key string) error {
	name := clean(key)
	if name == "" || name == "." {
		return fmt.Errorf("delete %q: %w", key, domain.ErrInvalidInput)
	}
	if err := util.RemoveAll(d.fs, name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func clean(key string) string {
	return strings.Trim(key, "/")
}
