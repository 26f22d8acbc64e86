package domain

import (
	"context"
	"time"
)

// ProductImage is a detail image shown on a product's detail view.
type ProductImage struct {
	ID        int64
	ProductID int64
	ImgAddr   string // address returned by the ImageStore
	ImgDesc   string // original upload filename
	Priority  int
	CreatedAt time.Time
}

// ProductImageRepository handles detail image rows.
type ProductImageRepository interface {
	// BatchInsert inserts all rows in one transaction and returns the number inserted.
	BatchInsert(ctx context.Context, images []ProductImage) (int64, error)
	ListByProduct(ctx context.Context, productID int64) ([]ProductImage, error)
	DeleteByProduct(ctx context.Context, productID int64) (int64, error)
}

// ImagePayload is an uploaded image awaiting processing.
type ImagePayload struct {
	Filename string
	Data     []byte
}

// ImageSpec is the bounding box and encoder quality for a stored image.
// Quality ranges over (0, 1].
type ImageSpec struct {
	Width   int
	Height  int
	Quality float32
}

var (
	ThumbnailSpec = ImageSpec{Width: 200, Height: 200, Quality: 0.8}
	DetailSpec    = ImageSpec{Width: 337, Height: 640, Quality: 0.9}
)

// FileStore abstracts raw file byte storage.
// Implementations store on disk or as SQLite BLOBs.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ImageStore resizes uploaded images and persists them, returning an address
// that can later be read back or deleted.
type ImageStore interface {
	ResizeAndStore(ctx context.Context, payload ImagePayload, destDir string, spec ImageSpec) (string, error)
	Delete(ctx context.Context, addr string) error
}

// PathResolver maps a shop to the directory its images live under.
type PathResolver interface {
	ShopImageDir(shopID int64) string
}
