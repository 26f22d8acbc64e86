package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var _ domain.Database = (*DB)(nil)

// DB wraps a SQLite connection and hands out the repositories built on it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// A single connection keeps the pragmas above in effect for every query.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

func (d *DB) Close() error {
	return d.SqlDB.Close()
}

func (d *DB) Areas() domain.AreaRepository {
	return &areaRepo{db: d.SqlDB}
}

func (d *DB) Shops() domain.ShopRepository {
	return &shopRepo{db: d.SqlDB}
}

func (d *DB) Categories() domain.ProductCategoryRepository {
	return &categoryRepo{db: d.SqlDB}
}

func (d *DB) Products() domain.ProductRepository {
	return &productRepo{db: d.SqlDB}
}

func (d *DB) ProductImages() domain.ProductImageRepository {
	return &productImageRepo{db: d.SqlDB}
}

// FileStore returns a domain.FileStore that keeps file bytes as BLOBs.
func (d *DB) FileStore() domain.FileStore {
	return &fileStore{db: d.SqlDB}
}
