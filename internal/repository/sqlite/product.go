package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// productRepo implements domain.ProductRepository using SQLite.
type productRepo struct {
	db *sql.DB
}

const productColumns = `p.product_id, p.shop_id, p.product_category_id, c.category_name,
	p.product_name, p.product_desc, p.img_addr, p.normal_price, p.promotion_price,
	p.priority, p.enable_status, p.created_at, p.updated_at`

const productFrom = `FROM products p
	LEFT JOIN product_categories c ON c.product_category_id = p.product_category_id`

func (r *productRepo) Insert(ctx context.Context, product *domain.Product) (int64, error) {
	now := time.Now().UTC()
	createdAt, updatedAt := product.CreatedAt, product.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	priority := 0
	if product.Priority != nil {
		priority = *product.Priority
	}
	status := domain.StatusEnabled
	if product.EnableStatus != nil {
		status = *product.EnableStatus
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO products (shop_id, product_category_id, product_name, product_desc, img_addr,
			normal_price, promotion_price, priority, enable_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ShopID(), categoryIDArg(product.Category), product.Name, product.Description,
		nullableString(product.ImgAddr), product.NormalPrice, product.PromotionPrice,
		priority, status, createdAt, updatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	product.ID = id
	product.CreatedAt = createdAt
	product.UpdatedAt = updatedAt
	return affected, nil
}

// Update writes only the fields that are set on product. The row is matched
// on both product and shop, so a product cannot be edited through another shop.
func (r *productRepo) Update(ctx context.Context, product *domain.Product) (int64, error) {
	updatedAt := product.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if product.Name != "" {
		set("product_name", product.Name)
	}
	if product.Description != "" {
		set("product_desc", product.Description)
	}
	if product.ImgAddr != "" {
		set("img_addr", product.ImgAddr)
	}
	if product.NormalPrice.Valid {
		set("normal_price", product.NormalPrice)
	}
	if product.PromotionPrice.Valid {
		set("promotion_price", product.PromotionPrice)
	}
	if product.Priority != nil {
		set("priority", *product.Priority)
	}
	if product.Category != nil && product.Category.ID != 0 {
		set("product_category_id", product.Category.ID)
	}
	if product.EnableStatus != nil {
		set("enable_status", *product.EnableStatus)
	}
	set("updated_at", updatedAt)

	args = append(args, product.ID, product.ShopID())
	result, err := r.db.ExecContext(ctx,
		"UPDATE products SET "+strings.Join(sets, ", ")+" WHERE product_id = ? AND shop_id = ?",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		product.UpdatedAt = updatedAt
	}
	return affected, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row productRow
	err := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" "+productFrom+" WHERE p.product_id = ?", id,
	).Scan(row.dest()...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *productRepo) List(ctx context.Context, filter domain.ProductFilter, offset, limit int) ([]domain.Product, error) {
	where, args := filterClause(filter)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" "+productFrom+where+
			" ORDER BY p.priority DESC, p.product_id DESC LIMIT ? OFFSET ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var row productRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *row.toDomain())
	}
	return products, rows.Err()
}

func (r *productRepo) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	where, args := filterClause(filter)

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE product_id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

func filterClause(filter domain.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Name != "" {
		conds = append(conds, "p.product_name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(filter.Name)+"%")
	}
	if filter.EnableStatus != nil {
		conds = append(conds, "p.enable_status = ?")
		args = append(args, *filter.EnableStatus)
	}
	if filter.ShopID != 0 {
		conds = append(conds, "p.shop_id = ?")
		args = append(args, filter.ShopID)
	}
	if filter.CategoryID != 0 {
		conds = append(conds, "p.product_category_id = ?")
		args = append(args, filter.CategoryID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func categoryIDArg(c *domain.ProductCategory) any {
	if c == nil || c.ID == 0 {
		return nil
	}
	return c.ID
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// productRow is a private struct used to scan product rows with their
// nullable columns before conversion to domain.Product.
type productRow struct {
	ID             int64
	ShopID         int64
	CategoryID     sql.NullInt64
	CategoryName   sql.NullString
	Name           string
	Description    string
	ImgAddr        sql.NullString
	NormalPrice    decimal.NullDecimal
	PromotionPrice decimal.NullDecimal
	Priority       int
	EnableStatus   domain.EnableStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (pr *productRow) dest() []any {
	return []any{
		&pr.ID, &pr.ShopID, &pr.CategoryID, &pr.CategoryName,
		&pr.Name, &pr.Description, &pr.ImgAddr, &pr.NormalPrice, &pr.PromotionPrice,
		&pr.Priority, &pr.EnableStatus, &pr.CreatedAt, &pr.UpdatedAt,
	}
}

func (pr *productRow) toDomain() *domain.Product {
	priority := pr.Priority
	status := pr.EnableStatus
	p := &domain.Product{
		ID:             pr.ID,
		Shop:           &domain.Shop{ID: pr.ShopID},
		Name:           pr.Name,
		Description:    pr.Description,
		ImgAddr:        pr.ImgAddr.String,
		NormalPrice:    pr.NormalPrice,
		PromotionPrice: pr.PromotionPrice,
		Priority:       &priority,
		EnableStatus:   &status,
		CreatedAt:      pr.CreatedAt,
		UpdatedAt:      pr.UpdatedAt,
	}
	if pr.CategoryID.Valid {
		p.Category = &domain.ProductCategory{
			ID:     pr.CategoryID.Int64,
			ShopID: pr.ShopID,
			Name:   pr.CategoryName.String,
		}
	}
	return p
}
