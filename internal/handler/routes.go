package handler

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/service"
	"github.com/rs/zerolog"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	Products *service.ProductService
	Shops    *service.ShopService
	Areas    *service.AreaService
	Images   ImageReader

	// Limiter throttles product writes per client IP. Nil disables it.
	Limiter        *service.TokenBucket
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// NewEngine builds a gin engine with logging, panic recovery and all routes.
func NewEngine(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(d.Logger))
	router.Use(gin.CustomRecovery(HandlePanics(d.Logger)))
	RegisterRoutes(router, d)
	return router
}

// RegisterRoutes sets up all HTTP routes on the given router.
func RegisterRoutes(router *gin.Engine, d Deps) {
	router.GET("/healthz", HandleHealthz)

	images := NewImageHandler(d.Images)
	router.GET("/images/*addr", images.HandleServe)

	admin := router.Group("/admin")

	areas := NewAreaHandler(d.Areas)
	admin.GET("/area/list", areas.HandleList)

	shops := NewShopHandler(d.Shops)
	shopGroup := admin.Group("/shops")
	{
		shopGroup.POST("", shops.HandleCreate)
		shopGroup.GET("/:shopId", shops.HandleGet)
		shopGroup.POST("/:shopId/categories", shops.HandleCreateCategory)
		shopGroup.GET("/:shopId/categories", shops.HandleListCategories)
	}

	products := NewProductHandler(d.Products)
	var writes []gin.HandlerFunc
	if d.Limiter != nil {
		writes = append(writes, RateLimit(d.Limiter))
	}
	writes = append(writes, LimitBody(d.MaxUploadBytes))
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clone(writes), h)
	}
	productGroup := admin.Group("/products")
	{
		productGroup.GET("", products.HandleList)
		productGroup.GET("/count", products.HandleCount)
		productGroup.GET("/:productId", products.HandleGet)
		productGroup.POST("", write(products.HandleCreate)...)
		productGroup.PUT("/:productId", write(products.HandleModify)...)
		productGroup.DELETE("/:productId", products.HandleDelete)
	}
}
