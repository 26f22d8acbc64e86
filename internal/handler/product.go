package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/service"
)

// maxDetailImages is the most detail images accepted in one upload.
const maxDetailImages = 6

// ProductHandler serves the product admin endpoints.
type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// HandleCreate creates a product from a multipart upload.
// POST /admin/products
func (h *ProductHandler) HandleCreate(c *gin.Context) {
	form, ok := parseProductForm(c)
	if !ok {
		return
	}

	details := form.details
	if details == nil {
		details = []domain.ImagePayload{}
	}
	out := h.products.Create(c.Request.Context(), form.product, form.thumbnail, details)
	if !out.OK() {
		writeOutcomeError(c, out)
		return
	}
	c.JSON(http.StatusOK, writeResponse(out))
}

// HandleModify updates a product. Detail images are replaced only when
// files are uploaded or clearImages=true is sent.
// PUT /admin/products/:productId
func (h *ProductHandler) HandleModify(c *gin.Context) {
	id, ok := paramID(c, "productId")
	if !ok {
		return
	}
	form, ok := parseProductForm(c)
	if !ok {
		return
	}
	form.product.ID = id

	details := form.details
	if details == nil && c.PostForm("clearImages") == "true" {
		details = []domain.ImagePayload{}
	}
	out := h.products.Modify(c.Request.Context(), form.product, form.thumbnail, details)
	if !out.OK() {
		writeOutcomeError(c, out)
		return
	}
	c.JSON(http.StatusOK, writeResponse(out))
}

// HandleGet returns one product with its detail images.
// GET /admin/products/:productId
func (h *ProductHandler) HandleGet(c *gin.Context) {
	id, ok := paramID(c, "productId")
	if !ok {
		return
	}
	out := h.products.GetByID(c.Request.Context(), id)
	if !out.OK() {
		writeOutcomeError(c, out)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": toProductDTO(out.Product)})
}

// HandleList returns a page of products.
// GET /admin/products
func (h *ProductHandler) HandleList(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	pageIndex, ok := queryInt(c, "pageIndex", 1)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "pageSize", 10)
	if !ok {
		return
	}

	out := h.products.List(c.Request.Context(), filter, pageIndex, pageSize)
	if !out.OK() {
		writeOutcomeError(c, out)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"productList": toProductDTOs(out.Products),
		"count":       out.Count,
	})
}

// HandleCount returns the number of products matching the filter.
// GET /admin/products/count
func (h *ProductHandler) HandleCount(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	out := h.products.Count(c.Request.Context(), filter)
	if !out.OK() {
		writeOutcomeError(c, out)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": out.Count})
}

// HandleDelete removes a product. Deleting a missing product succeeds with
// effectedNum 0.
// DELETE /admin/products/:productId
func (h *ProductHandler) HandleDelete(c *gin.Context) {
	id, ok := paramID(c, "productId")
	if !ok {
		return
	}
	n, err := h.products.Delete(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "effectedNum": n})
}

func writeResponse(out service.Outcome) gin.H {
	body := gin.H{"success": true}
	if out.Product != nil {
		body["productId"] = out.Product.ID
	}
	if len(out.Warnings) > 0 {
		body["warnings"] = out.Warnings
	}
	return body
}

type productForm struct {
	product   *domain.Product
	thumbnail *domain.ImagePayload
	details   []domain.ImagePayload // nil when no detail files were sent
}

func parseProductForm(c *gin.Context) (*productForm, bool) {
	mf, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(c, http.StatusBadRequest, "upload too large")
			return nil, false
		}
		writeError(c, http.StatusBadRequest, "expected multipart form")
		return nil, false
	}

	raw := c.PostForm("productStr")
	if raw == "" {
		writeError(c, http.StatusBadRequest, "productStr is required")
		return nil, false
	}
	var req ProductRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid productStr: "+err.Error())
		return nil, false
	}
	form := &productForm{product: req.toDomain()}

	if files := mf.File["thumbnail"]; len(files) > 0 {
		payload, err := readPayload(files[0])
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		form.thumbnail = &payload
	}

	files := mf.File["productImg"]
	for i := 0; i < maxDetailImages; i++ {
		files = append(files, mf.File["productImg"+strconv.Itoa(i)]...)
	}
	if len(files) > maxDetailImages {
		writeError(c, http.StatusBadRequest, fmt.Sprintf("at most %d detail images are allowed", maxDetailImages))
		return nil, false
	}
	for _, fh := range files {
		payload, err := readPayload(fh)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		form.details = append(form.details, payload)
	}
	return form, true
}

func readPayload(fh *multipart.FileHeader) (domain.ImagePayload, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return domain.ImagePayload{Filename: fh.Filename, Data: data}, nil
}

func parseFilter(c *gin.Context) (domain.ProductFilter, bool) {
	filter := domain.ProductFilter{Name: c.Query("name")}

	if raw := c.Query("enableStatus"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid enableStatus")
			return filter, false
		}
		filter.EnableStatus = domain.EnableStatus(v).Ptr()
	}
	for name, dst := range map[string]*int64{"shopId": &filter.ShopID, "categoryId": &filter.CategoryID} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid "+name)
			return filter, false
		}
		*dst = v
	}
	return filter, true
}
