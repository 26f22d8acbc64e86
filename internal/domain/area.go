package domain

import (
	"context"
	"time"
)

// Area is a geographic area a shop belongs to.
type Area struct {
	ID          int64
	Name        string
	Description string
	Priority    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AreaRepository defines persistence operations for areas.
type AreaRepository interface {
	// List returns all areas ordered by priority, highest first.
	List(ctx context.Context) ([]Area, error)
	Create(ctx context.Context, area *Area) error
}
