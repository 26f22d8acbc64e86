package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EnableStatus int

const (
	StatusDisabled EnableStatus = 0
	StatusEnabled  EnableStatus = 1
)

// Ptr returns a pointer to s, for populating optional status fields.
func (s EnableStatus) Ptr() *EnableStatus {
	return &s
}

// Product is a sellable item owned by a shop.
//
// Pointer fields are optional: on update, a nil value leaves the stored
// column untouched. ImgAddr is the thumbnail address; empty means none.
type Product struct {
	ID             int64
	Shop           *Shop
	Category       *ProductCategory
	Name           string
	Description    string
	ImgAddr        string
	NormalPrice    decimal.NullDecimal
	PromotionPrice decimal.NullDecimal
	Priority       *int
	EnableStatus   *EnableStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Images is only populated when a single product is loaded.
	Images []ProductImage
}

// ShopID returns the owning shop ID, or 0 when no shop is attached.
func (p *Product) ShopID() int64 {
	if p == nil || p.Shop == nil {
		return 0
	}
	return p.Shop.ID
}

// ProductFilter narrows product listings. Zero values match everything.
type ProductFilter struct {
	Name         string // substring match
	EnableStatus *EnableStatus
	ShopID       int64
	CategoryID   int64
}

// ProductRepository handles product rows. Write operations report the
// number of affected rows, which callers treat as the success signal.
type ProductRepository interface {
	Insert(ctx context.Context, product *Product) (int64, error)
	Update(ctx context.Context, product *Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, filter ProductFilter, offset, limit int) ([]Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
