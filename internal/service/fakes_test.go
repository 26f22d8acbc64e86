package service_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/o2o-admin/internal/domain"
)

// calls records collaborator invocations in order across fakes.
type calls []string

func (c *calls) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeProducts struct {
	log    *calls
	rows   map[int64]domain.Product
	nextID int64

	insertAffected int64
	insertErr      error
	updateAffected int64
	updateErr      error
	getErr         error
	listErr        error
	onDelete       func(id int64)

	inserted []domain.Product
	updated  []domain.Product
}

func newFakeProducts(log *calls) *fakeProducts {
	return &fakeProducts{log: log, rows: map[int64]domain.Product{}, nextID: 1, insertAffected: 1, updateAffected: 1}
}

func (f *fakeProducts) Insert(_ context.Context, p *domain.Product) (int64, error) {
	f.log.add("insert")
	f.inserted = append(f.inserted, *p)
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if f.insertAffected > 0 {
		p.ID = f.nextID
		f.nextID++
		f.rows[p.ID] = *p
	}
	return f.insertAffected, nil
}

func (f *fakeProducts) Update(_ context.Context, p *domain.Product) (int64, error) {
	f.log.add("update")
	f.updated = append(f.updated, *p)
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	return f.updateAffected, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	f.log.add("get %d", id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) List(_ context.Context, _ domain.ProductFilter, offset, limit int) ([]domain.Product, error) {
	f.log.add("list %d %d", offset, limit)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.Product{}
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Count(context.Context, domain.ProductFilter) (int, error) {
	f.log.add("count")
	if f.listErr != nil {
		return 0, f.listErr
	}
	return len(f.rows), nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) (int64, error) {
	f.log.add("delete product %d", id)
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	if f.onDelete != nil {
		f.onDelete(id)
	}
	return 1, nil
}

type fakeImages struct {
	log      *calls
	rows     map[int64][]domain.ProductImage
	batchErr error
	batches  [][]domain.ProductImage
}

func newFakeImages(log *calls) *fakeImages {
	return &fakeImages{log: log, rows: map[int64][]domain.ProductImage{}}
}

func (f *fakeImages) BatchInsert(_ context.Context, images []domain.ProductImage) (int64, error) {
	f.log.add("batch insert %d", len(images))
	f.batches = append(f.batches, images)
	if f.batchErr != nil {
		return 0, f.batchErr
	}
	for _, img := range images {
		f.rows[img.ProductID] = append(f.rows[img.ProductID], img)
	}
	return int64(len(images)), nil
}

func (f *fakeImages) ListByProduct(_ context.Context, productID int64) ([]domain.ProductImage, error) {
	f.log.add("list images %d", productID)
	return f.rows[productID], nil
}

func (f *fakeImages) DeleteByProduct(_ context.Context, productID int64) (int64, error) {
	f.log.add("delete images %d", productID)
	n := int64(len(f.rows[productID]))
	delete(f.rows, productID)
	return n, nil
}

type fakeStore struct {
	log      *calls
	specs    []domain.ImageSpec
	deleted  []string
	failOn   string // filename that fails to store
	deleteOK bool
	n        int
}

func newFakeStore(log *calls) *fakeStore {
	return &fakeStore{log: log, deleteOK: true}
}

func (f *fakeStore) ResizeAndStore(_ context.Context, payload domain.ImagePayload, destDir string, spec domain.ImageSpec) (string, error) {
	f.log.add("store %s %dx%d", payload.Filename, spec.Width, spec.Height)
	f.specs = append(f.specs, spec)
	if payload.Filename == f.failOn {
		return "", errors.New("disk full")
	}
	f.n++
	return fmt.Sprintf("%s%d-%s", destDir, f.n, payload.Filename), nil
}

func (f *fakeStore) Delete(_ context.Context, addr string) error {
	f.log.add("delete file %s", addr)
	f.deleted = append(f.deleted, addr)
	if !f.deleteOK {
		return errors.New("permission denied")
	}
	return nil
}

type fakePaths struct{}

func (fakePaths) ShopImageDir(shopID int64) string {
	return fmt.Sprintf("/img/%d/", shopID)
}
