package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/o2o-admin/internal/domain"
)

// ShopService manages shops and their product categories.
type ShopService struct {
	shops      domain.ShopRepository
	categories domain.ProductCategoryRepository
}

func NewShopService(shops domain.ShopRepository, categories domain.ProductCategoryRepository) *ShopService {
	return &ShopService{shops: shops, categories: categories}
}

func (s *ShopService) Create(ctx context.Context, shop *domain.Shop) error {
	shop.Name = strings.TrimSpace(shop.Name)
	if shop.Name == "" {
		return fmt.Errorf("%w: shop name is required", domain.ErrInvalidInput)
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		return fmt.Errorf("create shop: %w", err)
	}
	return nil
}

func (s *ShopService) Get(ctx context.Context, id int64) (*domain.Shop, error) {
	return s.shops.GetByID(ctx, id)
}

// AddCategory creates a category under an existing shop.
func (s *ShopService) AddCategory(ctx context.Context, category *domain.ProductCategory) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	if _, err := s.shops.GetByID(ctx, category.ShopID); err != nil {
		return fmt.Errorf("get shop: %w", err)
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *ShopService) Categories(ctx context.Context, shopID int64) ([]domain.ProductCategory, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return s.categories.ListByShop(ctx, shopID)
}
