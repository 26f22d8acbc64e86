// Package imagestore resizes uploaded images and keeps them on a FileStore.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/pkg/clock"
)

var (
	_ domain.ImageStore   = (*Store)(nil)
	_ domain.PathResolver = ShopPaths{}
)

const timestampLayout = "20060102150405"

// Store implements domain.ImageStore on top of a byte-level FileStore.
type Store struct {
	files domain.FileStore
	clock clock.Clock
	newID func() string
}

func New(files domain.FileStore, clk clock.Clock) *Store {
	return &Store{files: files, clock: clk, newID: uuid.NewString}
}

// ResizeAndStore decodes the payload, shrinks it to fit spec's bounding box
// and writes it under destDir. The returned address is destDir plus the
// generated file name.
func (s *Store) ResizeAndStore(ctx context.Context, payload domain.ImagePayload, destDir string, spec domain.ImageSpec) (string, error) {
	if len(payload.Data) == 0 {
		return "", fmt.Errorf("image %q is empty: %w", payload.Filename, domain.ErrInvalidInput)
	}
	if spec.Width <= 0 || spec.Height <= 0 || spec.Quality <= 0 || spec.Quality > 1 {
		return "", fmt.Errorf("image spec %+v: %w", spec, domain.ErrInvalidInput)
	}

	img, err := imaging.Decode(bytes.NewReader(payload.Data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image %q: %w", payload.Filename, err)
	}

	ext := strings.ToLower(path.Ext(payload.Filename))
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format, ext = imaging.JPEG, ".jpg"
	}

	resized := imaging.Fit(img, spec.Width, spec.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(int(spec.Quality*100))); err != nil {
		return "", fmt.Errorf("encode image %q: %w", payload.Filename, err)
	}

	addr := withSlash(destDir) + s.fileName(ext)
	if err := s.files.Save(ctx, addr, buf.Bytes()); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return addr, nil
}

// Delete removes the image at addr. An address ending in "/" removes the
// whole directory. Empty addresses are ignored.
func (s *Store) Delete(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	if err := s.files.Delete(ctx, addr); err != nil {
		return fmt.Errorf("delete image %s: %w", addr, err)
	}
	return nil
}

// Open returns the stored bytes for addr.
func (s *Store) Open(ctx context.Context, addr string) ([]byte, error) {
	return s.files.Get(ctx, addr)
}

// fileName is the timestamp to the second followed by a random suffix.
func (s *Store) fileName(ext string) string {
	id := strings.ReplaceAll(s.newID(), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return s.clock.Now().Format(timestampLayout) + id + ext
}

func withSlash(dir string) string {
	if dir == "" || strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// ShopPaths lays out images per shop under a common root.
type ShopPaths struct {
	Root string
}

// ShopImageDir returns the directory for a shop's product images, with a
// trailing slash so it can be concatenated with a file name.
func (p ShopPaths) ShopImageDir(shopID int64) string {
	root := p.Root
	if root == "" {
		root = "upload/item/shop"
	}
	return withSlash(root) + strconv.FormatInt(shopID, 10) + "/"
}
