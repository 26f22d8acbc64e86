package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/o2o-admin/internal/domain"
)

// productImageRepo implements domain.ProductImageRepository using SQLite.
type productImageRepo struct {
	db *sql.DB
}

func (r *productImageRepo) BatchInsert(ctx context.Context, images []domain.ProductImage) (int64, error) {
	if len(images) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO product_images (product_id, img_addr, img_desc, priority, created_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var total int64
	for i := range images {
		img := &images[i]
		if img.CreatedAt.IsZero() {
			img.CreatedAt = time.Now().UTC()
		}

		result, err := stmt.ExecContext(ctx, img.ProductID, img.ImgAddr, img.ImgDesc, img.Priority, img.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert product image %d: %w", i, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("get last insert id: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		img.ID = id
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

func (r *productImageRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_img_id, product_id, img_addr, img_desc, priority, created_at
		 FROM product_images WHERE product_id = ? ORDER BY priority DESC, product_img_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	images := make([]domain.ProductImage, 0)
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImgAddr, &img.ImgDesc, &img.Priority, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *productImageRepo) DeleteByProduct(ctx context.Context, productID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = ?", productID)
	if err != nil {
		return 0, fmt.Errorf("delete product images: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
