package domain

import (
	"context"
	"time"
)

// Shop owns products. Only the fields the admin backend needs are modelled.
type Shop struct {
	ID           int64
	AreaID       int64
	Name         string
	Description  string
	Address      string
	Phone        string
	EnableStatus EnableStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ShopRepository interface {
	Create(ctx context.Context, shop *Shop) error
	GetByID(ctx context.Context, id int64) (*Shop, error)
}

// ProductCategory groups the products of a single shop.
type ProductCategory struct {
	ID        int64
	ShopID    int64
	Name      string
	Priority  int
	CreatedAt time.Time
}

type ProductCategoryRepository interface {
	Create(ctx context.Context, category *ProductCategory) error
	ListByShop(ctx context.Context, shopID int64) ([]ProductCategory, error)
}
