package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/o2o-admin/internal/domain"
)

// areaRepo implements domain.AreaRepository using SQLite.
type areaRepo struct {
	db *sql.DB
}

func (r *areaRepo) List(ctx context.Context) ([]domain.Area, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT area_id, area_name, area_desc, priority, created_at, updated_at
		 FROM areas ORDER BY priority DESC, area_id`)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	areas := make([]domain.Area, 0)
	for rows.Next() {
		var a domain.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Priority, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (r *areaRepo) Create(ctx context.Context, area *domain.Area) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO areas (area_name, area_desc, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		area.Name, area.Description, area.Priority, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert area: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	area.ID = id
	area.CreatedAt = now
	area.UpdatedAt = now
	return nil
}
