package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/pkg/clock"
	"github.com/msomdec/o2o-admin/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type pipeline struct {
	svc      *service.ProductService
	log      *calls
	products *fakeProducts
	images   *fakeImages
	store    *fakeStore
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	log := &calls{}
	p := &pipeline{
		log:      log,
		products: newFakeProducts(log),
		images:   newFakeImages(log),
		store:    newFakeStore(log),
	}
	// Mirrors the product_images foreign key cascade.
	p.products.onDelete = func(id int64) { delete(p.images.rows, id) }
	p.svc = service.NewProductService(p.products, p.images, p.store, fakePaths{}, clock.NewFake(testNow), zerolog.Nop())
	return p
}

func shopProduct(shopID int64, name string) *domain.Product {
	return &domain.Product{Shop: &domain.Shop{ID: shopID}, Name: name}
}

func payload(name string) *domain.ImagePayload {
	return &domain.ImagePayload{Filename: name, Data: []byte("img")}
}

func TestProductService_ValidationFailed(t *testing.T) {
	invalid := map[string]*domain.Product{
		"nil product": nil,
		"nil shop":    {Name: "A"},
		"zero shop":   {Name: "A", Shop: &domain.Shop{}},
	}
	for name, product := range invalid {
		t.Run(name, func(t *testing.T) {
			p := newPipeline(t)
			ctx := context.Background()

			out := p.svc.Create(ctx, product, payload("t.png"), []domain.ImagePayload{*payload("d.png")})
			assert.Equal(t, service.StateValidationFailed, out.State)

			out = p.svc.Modify(ctx, product, payload("t.png"), []domain.ImagePayload{})
			assert.Equal(t, service.StateValidationFailed, out.State)
			assert.NotEmpty(t, out.Reason)

			assert.Empty(t, *p.log, "no collaborator may be called")
		})
	}
}

func TestProductService_CreateWithoutImages(t *testing.T) {
	p := newPipeline(t)
	product := shopProduct(5, "A")

	out := p.svc.Create(context.Background(), product, nil, []domain.ImagePayload{})

	require.Equal(t, service.StateSuccess, out.State)
	assert.Equal(t, calls{"insert"}, *p.log)
	assert.Empty(t, product.ImgAddr)
	assert.Empty(t, p.images.batches)
	assert.Equal(t, testNow, product.CreatedAt)
	assert.Equal(t, testNow, product.UpdatedAt)
	require.NotNil(t, product.EnableStatus)
	assert.Equal(t, domain.StatusEnabled, *product.EnableStatus)
}

func TestProductService_CreateForcesEnabled(t *testing.T) {
	p := newPipeline(t)
	product := shopProduct(5, "A")
	product.EnableStatus = domain.StatusDisabled.Ptr()

	out := p.svc.Create(context.Background(), product, nil, nil)

	require.True(t, out.OK())
	assert.Equal(t, domain.StatusEnabled, *p.products.inserted[0].EnableStatus)
}

func TestProductService_CreateThumbnailBeforeInsert(t *testing.T) {
	p := newPipeline(t)
	product := shopProduct(5, "A")

	out := p.svc.Create(context.Background(), product, payload("t.png"), nil)

	require.True(t, out.OK())
	assert.Equal(t, calls{"store t.png 200x200", "insert"}, *p.log)
	assert.Equal(t, domain.ThumbnailSpec, p.store.specs[0])
	assert.Equal(t, "/img/5/1-t.png", p.products.inserted[0].ImgAddr)
}

func TestProductService_CreateWithDetailImages(t *testing.T) {
	p := newPipeline(t)
	product := shopProduct(5, "A")
	details := []domain.ImagePayload{*payload("a.png"), *payload("b.png"), *payload("c.png")}

	out := p.svc.Create(context.Background(), product, nil, details)

	require.True(t, out.OK())
	assert.Empty(t, out.Warnings)
	assert.Equal(t, calls{
		"insert",
		"store a.png 337x640",
		"store b.png 337x640",
		"store c.png 337x640",
		"batch insert 3",
	}, *p.log)
	for _, spec := range p.store.specs {
		assert.Equal(t, domain.DetailSpec, spec)
	}

	require.Len(t, p.images.batches, 1)
	for i, row := range p.images.batches[0] {
		assert.Equal(t, 1, row.Priority)
		assert.Equal(t, product.ID, row.ProductID)
		assert.Equal(t, details[i].Filename, row.ImgDesc)
		assert.Equal(t, testNow, row.CreatedAt)
	}
}

func TestProductService_CreateInsertAffectsNothing(t *testing.T) {
	p := newPipeline(t)
	p.products.insertAffected = 0

	out := p.svc.Create(context.Background(), shopProduct(5, "A"), nil, []domain.ImagePayload{*payload("a.png")})

	assert.Equal(t, service.StateOperationFailed, out.State)
	assert.NotEmpty(t, out.Reason)
	assert.Empty(t, p.images.batches)
	assert.Equal(t, calls{"insert"}, *p.log)
}

func TestProductService_CreateInsertErrorRemovesThumbnail(t *testing.T) {
	p := newPipeline(t)
	p.products.insertErr = errors.New("constraint failed")
	product := shopProduct(5, "A")

	out := p.svc.Create(context.Background(), product, payload("t.png"), nil)

	assert.Equal(t, service.StateOperationFailed, out.State)
	assert.Contains(t, out.Reason, "constraint failed")
	assert.Equal(t, []string{"/img/5/1-t.png"}, p.store.deleted)
	assert.Empty(t, product.ImgAddr)
}

func TestProductService_CreateThumbnailStoreFails(t *testing.T) {
	p := newPipeline(t)
	p.store.failOn = "t.png"

	out := p.svc.Create(context.Background(), shopProduct(5, "A"), payload("t.png"), nil)

	assert.Equal(t, service.StateOperationFailed, out.State)
	assert.Empty(t, p.products.inserted)
}

func TestProductService_CreateDetailFailureIsWarning(t *testing.T) {
	p := newPipeline(t)
	p.images.batchErr = errors.New("database is locked")

	out := p.svc.Create(context.Background(), shopProduct(5, "A"), nil, []domain.ImagePayload{*payload("a.png"), *payload("b.png")})

	assert.Equal(t, service.StateSuccess, out.State)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "database is locked")
	// Files written for the failed batch are removed.
	assert.Equal(t, []string{"/img/5/1-a.png", "/img/5/2-b.png"}, p.store.deleted)
}

func TestProductService_CreateDetailStoreFailureSkipsBatch(t *testing.T) {
	p := newPipeline(t)
	p.store.failOn = "b.png"

	out := p.svc.Create(context.Background(), shopProduct(5, "A"), nil,
		[]domain.ImagePayload{*payload("a.png"), *payload("b.png"), *payload("c.png")})

	assert.Equal(t, service.StateSuccess, out.State)
	assert.Len(t, out.Warnings, 1)
	assert.Empty(t, p.images.batches)
	assert.Equal(t, []string{"/img/5/1-a.png"}, p.store.deleted)
}

func seedProduct(p *pipeline, id, shopID int64, imgAddr string, images ...string) {
	p.products.rows[id] = domain.Product{ID: id, Shop: &domain.Shop{ID: shopID}, Name: "old", ImgAddr: imgAddr}
	for _, addr := range images {
		p.images.rows[id] = append(p.images.rows[id], domain.ProductImage{ProductID: id, ImgAddr: addr})
	}
}

func TestProductService_ModifyReplacesThumbnail(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "/img/old.png", "/img/d1.png")
	product := &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}}

	out := p.svc.Modify(context.Background(), product, payload("new.png"), nil)

	require.Equal(t, service.StateSuccess, out.State)
	assert.Equal(t, calls{
		"get 9",
		"delete file /img/old.png",
		"store new.png 200x200",
		"update",
	}, *p.log)
	assert.Equal(t, []string{"/img/old.png"}, p.store.deleted)
	require.Len(t, p.products.updated, 1)
	assert.Equal(t, "/img/5/1-new.png", p.products.updated[0].ImgAddr)
	assert.Equal(t, testNow, p.products.updated[0].UpdatedAt)
	// Detail images untouched.
	assert.Len(t, p.images.rows[9], 1)
}

func TestProductService_ModifyWithoutOldThumbnail(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "")

	out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}}, payload("new.png"), nil)

	require.True(t, out.OK())
	assert.Empty(t, p.store.deleted)
}

func TestProductService_ModifyLookupFails(t *testing.T) {
	p := newPipeline(t)

	out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}}, payload("new.png"), nil)

	assert.Equal(t, service.StateOperationFailed, out.State)
	assert.Equal(t, "product modify failed: product not found", out.Reason)
	assert.Empty(t, p.store.specs)
	assert.Empty(t, p.products.updated)
}

func TestProductService_ModifyEmptyDetailsClearsImages(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "", "/img/d1.png", "/img/d2.png")

	out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}}, nil, []domain.ImagePayload{})

	require.True(t, out.OK())
	assert.Equal(t, []string{"/img/d1.png", "/img/d2.png"}, p.store.deleted)
	assert.Empty(t, p.images.rows[9])
	assert.Empty(t, p.images.batches)
	assert.Equal(t, calls{
		"get 9",
		"list images 9",
		"delete file /img/d1.png",
		"delete file /img/d2.png",
		"delete images 9",
		"update",
	}, *p.log)
}

func TestProductService_ModifyNilDetailsLeavesImages(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "", "/img/d1.png")

	out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}, Name: "B"}, nil, nil)

	require.True(t, out.OK())
	assert.Equal(t, calls{"update"}, *p.log)
	assert.Len(t, p.images.rows[9], 1)
}

func TestProductService_ModifyReplacesDetailImages(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "", "/img/d1.png")

	out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}}, nil,
		[]domain.ImagePayload{*payload("x.png"), *payload("y.png")})

	require.True(t, out.OK())
	require.Len(t, p.images.rows[9], 2)
	assert.Equal(t, "x.png", p.images.rows[9][0].ImgDesc)
	assert.Equal(t, []string{"/img/d1.png"}, p.store.deleted)
}

func TestProductService_ModifyWrongShopTouchesNothing(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "/img/old.png", "/img/d1.png")

	out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 6}},
		payload("new.png"), []domain.ImagePayload{})

	assert.Equal(t, service.StateOperationFailed, out.State)
	assert.Equal(t, "product modify failed: product not found", out.Reason)
	assert.ErrorIs(t, out.Err, domain.ErrNotFound)
	assert.Equal(t, calls{"get 9"}, *p.log)
	assert.Empty(t, p.store.deleted)
	assert.Len(t, p.images.rows[9], 1)
}

func TestProductService_ModifyUpdateFailureRemovesNewFiles(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "/img/old.png", "/img/d1.png")
	p.products.updateAffected = 0

	out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}},
		payload("new.png"), []domain.ImagePayload{*payload("x.png")})

	assert.Equal(t, service.StateOperationFailed, out.State)
	assert.Equal(t, []string{
		"/img/old.png",
		"/img/d1.png",
		"/img/5/1-new.png",
		"/img/5/2-x.png",
	}, p.store.deleted)
	assert.Empty(t, p.images.rows[9])
}

func TestProductService_ModifyUpdateFailures(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		p := newPipeline(t)
		p.products.updateAffected = 0

		out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}}, nil, nil)
		assert.Equal(t, service.StateOperationFailed, out.State)
	})
	t.Run("store error", func(t *testing.T) {
		p := newPipeline(t)
		p.products.updateErr = errors.New("disk I/O error")

		out := p.svc.Modify(context.Background(), &domain.Product{ID: 9, Shop: &domain.Shop{ID: 5}}, nil, nil)
		assert.Equal(t, service.StateOperationFailed, out.State)
		assert.Contains(t, out.Reason, "disk I/O error")
	})
}

func TestProductService_List(t *testing.T) {
	tests := []struct {
		name            string
		pageIndex, size int
		wantCall        string
	}{
		{"first page", 1, 10, "list 0 10"},
		{"third page", 3, 5, "list 10 5"},
		{"zero page clamps to first", 0, 5, "list 0 5"},
		{"negative page clamps to first", -4, 5, "list 0 5"},
		{"zero size uses default", 2, 0, "list 10 10"},
		{"oversized page is capped", 1, 1000, "list 0 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t)
			seedProduct(p, 1, 5, "")
			seedProduct(p, 2, 5, "")

			out := p.svc.List(context.Background(), domain.ProductFilter{ShopID: 5}, tt.pageIndex, tt.size)

			require.True(t, out.OK())
			assert.Equal(t, 2, out.Count)
			assert.Len(t, out.Products, 2)
			assert.Contains(t, *p.log, tt.wantCall)
		})
	}
}

func TestProductService_ListError(t *testing.T) {
	p := newPipeline(t)
	p.products.listErr = errors.New("no such table")

	out := p.svc.List(context.Background(), domain.ProductFilter{}, 1, 10)
	assert.Equal(t, service.StateOperationFailed, out.State)

	out = p.svc.Count(context.Background(), domain.ProductFilter{})
	assert.Equal(t, service.StateOperationFailed, out.State)
}

func TestProductService_Count(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 1, 5, "")

	out := p.svc.Count(context.Background(), domain.ProductFilter{})
	require.True(t, out.OK())
	assert.Equal(t, 1, out.Count)
}

func TestProductService_GetByID(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "/img/t.png", "/img/d1.png")

	out := p.svc.GetByID(context.Background(), 9)
	require.True(t, out.OK())
	require.NotNil(t, out.Product)
	assert.Len(t, out.Product.Images, 1)

	out = p.svc.GetByID(context.Background(), 10)
	assert.Equal(t, service.StateOperationFailed, out.State)
	assert.Equal(t, "product not found", out.Reason)
}

func TestProductService_DeleteIsIdempotent(t *testing.T) {
	p := newPipeline(t)
	seedProduct(p, 9, 5, "/img/t.png", "/img/d1.png", "/img/d2.png")
	ctx := context.Background()

	n, err := p.svc.Delete(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.ElementsMatch(t, []string{"/img/t.png", "/img/d1.png", "/img/d2.png"}, p.store.deleted)
	assert.Empty(t, p.images.rows[9])

	n, err = p.svc.Delete(ctx, 9)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProductService_DeleteFileFailureStillSucceeds(t *testing.T) {
	p := newPipeline(t)
	p.store.deleteOK = false
	seedProduct(p, 9, 5, "/img/t.png")

	n, err := p.svc.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
