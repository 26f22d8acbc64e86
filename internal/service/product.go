package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/pkg/clock"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	detailImagePriority = 1
)

// ProductService runs the product write pipeline: validation, image
// persistence through the ImageStore and row persistence through the
// repositories. Every call reports its result as an Outcome; no store
// error crosses this boundary.
type ProductService struct {
	products domain.ProductRepository
	images   domain.ProductImageRepository
	store    domain.ImageStore
	paths    domain.PathResolver
	clock    clock.Clock
	log      zerolog.Logger
}

func NewProductService(
	products domain.ProductRepository,
	images domain.ProductImageRepository,
	store domain.ImageStore,
	paths domain.PathResolver,
	clk clock.Clock,
	log zerolog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		images:   images,
		store:    store,
		paths:    paths,
		clock:    clk,
		log:      log.With().Str("component", "product_service").Logger(),
	}
}

// Create stores the optional thumbnail, inserts the product row and then
// attaches detail images. Detail image failures are reported as warnings
// and never change the outcome once the row exists.
func (s *ProductService) Create(ctx context.Context, product *domain.Product, thumbnail *domain.ImagePayload, details []domain.ImagePayload) Outcome {
	if reason := validateOwner(product); reason != "" {
		return validationFailed(reason)
	}

	now := s.clock.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.EnableStatus = domain.StatusEnabled.Ptr()

	if thumbnail != nil {
		addr, err := s.storeThumbnail(ctx, product, *thumbnail)
		if err != nil {
			return operationError("product create failed: "+err.Error(), err)
		}
		product.ImgAddr = addr
	}

	affected, err := s.products.Insert(ctx, product)
	if err != nil || affected <= 0 {
		s.discardThumbnail(ctx, product, product.ImgAddr != "")
		if err != nil {
			s.log.Info().Err(err).Msg("product insert failed")
			return operationError("product create failed: "+err.Error(), err)
		}
		return operationFailed("product create failed")
	}

	out := success()
	out.Product = product
	if len(details) > 0 {
		out.Warnings = s.addDetailImages(ctx, product, details)
	}
	return out
}

// Modify updates a product. A non-nil thumbnail replaces the stored one.
// A non-nil details slice, even an empty one, replaces the whole detail
// image set; nil leaves it untouched. The persisted product must belong to
// product.Shop before any stored file or image row is touched.
func (s *ProductService) Modify(ctx context.Context, product *domain.Product, thumbnail *domain.ImagePayload, details []domain.ImagePayload) Outcome {
	if reason := validateOwner(product); reason != "" {
		return validationFailed(reason)
	}

	product.UpdatedAt = s.clock.Now()
	var warnings []string

	if thumbnail != nil || details != nil {
		current, err := s.products.GetByID(ctx, product.ID)
		if err == nil && current.ShopID() != product.ShopID() {
			err = domain.ErrNotFound
		}
		if err != nil {
			return operationError("product modify failed: "+lookupReason(err), err)
		}

		if thumbnail != nil {
			if current.ImgAddr != "" {
				if err := s.store.Delete(ctx, current.ImgAddr); err != nil {
					warnings = append(warnings, s.warn(err, "delete old thumbnail "+current.ImgAddr))
				}
			}
			addr, err := s.storeThumbnail(ctx, product, *thumbnail)
			if err != nil {
				return operationError("product modify failed: "+err.Error(), err)
			}
			product.ImgAddr = addr
		}
	}

	if details != nil {
		removed, err := s.removeDetailImages(ctx, product.ID)
		warnings = append(warnings, removed...)
		if err != nil {
			s.discardThumbnail(ctx, product, thumbnail != nil)
			return operationError("product modify failed: "+err.Error(), err)
		}
		if len(details) > 0 {
			warnings = append(warnings, s.addDetailImages(ctx, product, details)...)
		}
	}

	affected, err := s.products.Update(ctx, product)
	if err != nil || affected <= 0 {
		s.discardThumbnail(ctx, product, thumbnail != nil)
		if len(product.Images) > 0 {
			if _, derr := s.images.DeleteByProduct(ctx, product.ID); derr != nil {
				s.warn(derr, "remove detail image rows")
			}
			s.discard(ctx, product.Images)
			product.Images = nil
		}
		if err != nil {
			s.log.Info().Err(err).Int64("product_id", product.ID).Msg("product update failed")
			return operationError("product modify failed: "+err.Error(), err)
		}
		return operationFailed("product modify failed")
	}

	out := success()
	out.Product = product
	out.Warnings = warnings
	return out
}

// List returns one page of products matching filter together with the
// total number of matches. pageIndex is 1-based.
func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter, pageIndex, pageSize int) Outcome {
	offset, limit := pageBounds(pageIndex, pageSize)

	count, err := s.products.Count(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("count products")
		return operationError("product query failed: "+err.Error(), err)
	}
	products, err := s.products.List(ctx, filter, offset, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list products")
		return operationError("product query failed: "+err.Error(), err)
	}

	out := success()
	out.Count = count
	out.Products = products
	return out
}

func (s *ProductService) Count(ctx context.Context, filter domain.ProductFilter) Outcome {
	count, err := s.products.Count(ctx, filter)
	if err != nil {
		return operationError("product count failed: "+err.Error(), err)
	}
	out := success()
	out.Count = count
	return out
}

// GetByID loads a product with its detail images.
func (s *ProductService) GetByID(ctx context.Context, id int64) Outcome {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return operationError(lookupReason(err), err)
	}
	images, err := s.images.ListByProduct(ctx, id)
	if err != nil {
		return operationError("list product images: "+err.Error(), err)
	}
	product.Images = images

	out := success()
	out.Product = product
	return out
}

// Delete removes a product, its detail image rows and every file they
// reference. It returns the number of product rows removed, so deleting
// a missing product yields 0 and no error.
func (s *ProductService) Delete(ctx context.Context, id int64) (int64, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get product: %w", err)
	}
	images, err := s.images.ListByProduct(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("list product images: %w", err)
	}

	// Image rows go with the product row through ON DELETE CASCADE.
	affected, err := s.products.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}

	// Rows are gone; files are removed best-effort.
	for _, img := range images {
		if err := s.store.Delete(ctx, img.ImgAddr); err != nil {
			s.warn(err, "delete detail image "+img.ImgAddr)
		}
	}
	if product.ImgAddr != "" {
		if err := s.store.Delete(ctx, product.ImgAddr); err != nil {
			s.warn(err, "delete thumbnail "+product.ImgAddr)
		}
	}
	return affected, nil
}

func (s *ProductService) storeThumbnail(ctx context.Context, product *domain.Product, payload domain.ImagePayload) (string, error) {
	dir := s.paths.ShopImageDir(product.ShopID())
	addr, err := s.store.ResizeAndStore(ctx, payload, dir, domain.ThumbnailSpec)
	if err != nil {
		return "", fmt.Errorf("store thumbnail: %w", err)
	}
	return addr, nil
}

// addDetailImages stores each payload and inserts one row per image in a
// single batch. It is best-effort: failures are logged and returned as
// warnings, and files written for a failed batch are removed.
func (s *ProductService) addDetailImages(ctx context.Context, product *domain.Product, details []domain.ImagePayload) []string {
	dir := s.paths.ShopImageDir(product.ShopID())
	now := s.clock.Now()

	rows := make([]domain.ProductImage, 0, len(details))
	for _, payload := range details {
		addr, err := s.store.ResizeAndStore(ctx, payload, dir, domain.DetailSpec)
		if err != nil {
			warning := s.warn(err, "store detail image "+payload.Filename)
			return append([]string{warning}, s.discard(ctx, rows)...)
		}
		rows = append(rows, domain.ProductImage{
			ProductID: product.ID,
			ImgAddr:   addr,
			ImgDesc:   payload.Filename,
			Priority:  detailImagePriority,
			CreatedAt: now,
		})
	}

	affected, err := s.images.BatchInsert(ctx, rows)
	if err == nil && affected <= 0 {
		err = errors.New("no rows inserted")
	}
	if err != nil {
		warning := s.warn(err, "insert detail images")
		return append([]string{warning}, s.discard(ctx, rows)...)
	}

	product.Images = rows
	return nil
}

// removeDetailImages deletes the backing files of a product's detail images
// and then their rows.
func (s *ProductService) removeDetailImages(ctx context.Context, productID int64) ([]string, error) {
	existing, err := s.images.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}

	var warnings []string
	for _, img := range existing {
		if err := s.store.Delete(ctx, img.ImgAddr); err != nil {
			warnings = append(warnings, s.warn(err, "delete detail image "+img.ImgAddr))
		}
	}

	if _, err := s.images.DeleteByProduct(ctx, productID); err != nil {
		return warnings, fmt.Errorf("delete product images: %w", err)
	}
	return warnings, nil
}

// discardThumbnail removes a thumbnail stored earlier in the same call
// whose row write did not go through.
func (s *ProductService) discardThumbnail(ctx context.Context, product *domain.Product, stored bool) {
	if !stored || product.ImgAddr == "" {
		return
	}
	if err := s.store.Delete(ctx, product.ImgAddr); err != nil {
		s.log.Warn().Err(err).Str("addr", product.ImgAddr).Msg("remove orphaned thumbnail")
	}
	product.ImgAddr = ""
}

func (s *ProductService) discard(ctx context.Context, rows []domain.ProductImage) []string {
	var warnings []string
	for _, row := range rows {
		if err := s.store.Delete(ctx, row.ImgAddr); err != nil {
			warnings = append(warnings, s.warn(err, "remove unreferenced image "+row.ImgAddr))
		}
	}
	return warnings
}

// warn logs a best-effort failure and returns it formatted for Outcome.Warnings.
func (s *ProductService) warn(err error, action string) string {
	s.log.Warn().Err(err).Msg(action)
	return action + ": " + err.Error()
}

func validateOwner(product *domain.Product) string {
	switch {
	case product == nil:
		return "product is required"
	case product.Shop == nil || product.Shop.ID == 0:
		return "product shop is required"
	}
	return ""
}

func lookupReason(err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return "product not found"
	}
	return "get product: " + err.Error()
}

// pageBounds turns a 1-based page into an offset and limit. Out-of-range
// input is clamped rather than rejected.
func pageBounds(pageIndex, pageSize int) (offset, limit int) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	switch {
	case pageSize < 1:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	return (pageIndex - 1) * pageSize, pageSize
}
