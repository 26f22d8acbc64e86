package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/o2o-admin/internal/domain"
)

// shopRepo implements domain.ShopRepository using SQLite.
type shopRepo struct {
	db *sql.DB
}

func (r *shopRepo) Create(ctx context.Context, shop *domain.Shop) error {
	now := time.Now().UTC()
	var areaID any
	if shop.AreaID != 0 {
		areaID = shop.AreaID
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO shops (area_id, shop_name, shop_desc, shop_addr, phone, enable_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		areaID, shop.Name, shop.Description, shop.Address, shop.Phone, shop.EnableStatus, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	shop.ID = id
	shop.CreatedAt = now
	shop.UpdatedAt = now
	return nil
}

func (r *shopRepo) GetByID(ctx context.Context, id int64) (*domain.Shop, error) {
	s := &domain.Shop{}
	var areaID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT shop_id, area_id, shop_name, shop_desc, shop_addr, phone, enable_status, created_at, updated_at
		 FROM shops WHERE shop_id = ?`, id,
	).Scan(&s.ID, &areaID, &s.Name, &s.Description, &s.Address, &s.Phone, &s.EnableStatus, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	s.AreaID = areaID.Int64
	return s, nil
}

// categoryRepo implements domain.ProductCategoryRepository using SQLite.
type categoryRepo struct {
	db *sql.DB
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.ProductCategory) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO product_categories (shop_id, category_name, priority, created_at)
		 VALUES (?, ?, ?, ?)`,
		category.ShopID, category.Name, category.Priority, now,
	)
	if err != nil {
		return fmt.Errorf("insert product category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	category.ID = id
	category.CreatedAt = now
	return nil
}

func (r *categoryRepo) ListByShop(ctx context.Context, shopID int64) ([]domain.ProductCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_category_id, shop_id, category_name, priority, created_at
		 FROM product_categories WHERE shop_id = ? ORDER BY priority DESC, product_category_id`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list product categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.ProductCategory, 0)
	for rows.Next() {
		var c domain.ProductCategory
		if err := rows.Scan(&c.ID, &c.ShopID, &c.Name, &c.Priority, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
