package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/service"
)

// ShopHandler serves shop and product category endpoints.
type ShopHandler struct {
	shops *service.ShopService
}

func NewShopHandler(shops *service.ShopService) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// POST /admin/shops
func (h *ShopHandler) HandleCreate(c *gin.Context) {
	var req ShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	shop := req.toDomain()
	if err := h.shops.Create(c.Request.Context(), shop); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "shop": toShopDTO(shop)})
}

// GET /admin/shops/:shopId
func (h *ShopHandler) HandleGet(c *gin.Context) {
	id, ok := paramID(c, "shopId")
	if !ok {
		return
	}
	shop, err := h.shops.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shop": toShopDTO(shop)})
}

// POST /admin/shops/:shopId/categories
func (h *ShopHandler) HandleCreateCategory(c *gin.Context) {
	shopID, ok := paramID(c, "shopId")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	category := &domain.ProductCategory{ShopID: shopID, Name: req.Name, Priority: req.Priority}
	if err := h.shops.AddCategory(c.Request.Context(), category); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "productCategory": toCategoryDTO(category)})
}

// GET /admin/shops/:shopId/categories
func (h *ShopHandler) HandleListCategories(c *gin.Context) {
	shopID, ok := paramID(c, "shopId")
	if !ok {
		return
	}
	categories, err := h.shops.Categories(c.Request.Context(), shopID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "productCategoryList": toCategoryDTOs(categories)})
}
