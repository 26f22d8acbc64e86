package handler

import (
	"time"

	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// AreaDTO is the JSON representation of an area.
type AreaDTO struct {
	ID           int64  `json:"areaId"`
	Name         string `json:"areaName"`
	Description  string `json:"areaDesc"`
	Priority     int    `json:"priority"`
	CreateTime   string `json:"createTime"`
	LastEditTime string `json:"lastEditTime"`
}

func toAreaDTOs(areas []domain.Area) []AreaDTO {
	dtos := make([]AreaDTO, len(areas))
	for i, a := range areas {
		dtos[i] = AreaDTO{
			ID:           a.ID,
			Name:         a.Name,
			Description:  a.Description,
			Priority:     a.Priority,
			CreateTime:   a.CreatedAt.Format(time.RFC3339),
			LastEditTime: a.UpdatedAt.Format(time.RFC3339),
		}
	}
	return dtos
}

// ShopDTO is the JSON representation of a shop. Only ShopID is set when the
// shop is embedded in a product.
type ShopDTO struct {
	ID           int64  `json:"shopId"`
	AreaID       int64  `json:"areaId,omitempty"`
	Name         string `json:"shopName,omitempty"`
	Description  string `json:"shopDesc,omitempty"`
	Address      string `json:"shopAddr,omitempty"`
	Phone        string `json:"phone,omitempty"`
	EnableStatus *int   `json:"enableStatus,omitempty"`
	CreateTime   string `json:"createTime,omitempty"`
	LastEditTime string `json:"lastEditTime,omitempty"`
}

func toShopDTO(s *domain.Shop) *ShopDTO {
	if s == nil {
		return nil
	}
	dto := &ShopDTO{ID: s.ID}
	if s.Name == "" {
		return dto
	}
	status := int(s.EnableStatus)
	dto.AreaID = s.AreaID
	dto.Name = s.Name
	dto.Description = s.Description
	dto.Address = s.Address
	dto.Phone = s.Phone
	dto.EnableStatus = &status
	dto.CreateTime = s.CreatedAt.Format(time.RFC3339)
	dto.LastEditTime = s.UpdatedAt.Format(time.RFC3339)
	return dto
}

// ShopRequest is the body accepted by POST /admin/shops.
type ShopRequest struct {
	AreaID       int64  `json:"areaId"`
	Name         string `json:"shopName"`
	Description  string `json:"shopDesc"`
	Address      string `json:"shopAddr"`
	Phone        string `json:"phone"`
	EnableStatus *int   `json:"enableStatus"`
}

func (r ShopRequest) toDomain() *domain.Shop {
	shop := &domain.Shop{
		AreaID:       r.AreaID,
		Name:         r.Name,
		Description:  r.Description,
		Address:      r.Address,
		Phone:        r.Phone,
		EnableStatus: domain.StatusEnabled,
	}
	if r.EnableStatus != nil {
		shop.EnableStatus = domain.EnableStatus(*r.EnableStatus)
	}
	return shop
}

// CategoryDTO is the JSON representation of a product category.
type CategoryDTO struct {
	ID         int64  `json:"productCategoryId"`
	ShopID     int64  `json:"shopId,omitempty"`
	Name       string `json:"productCategoryName,omitempty"`
	Priority   int    `json:"priority,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
}

func toCategoryDTO(c *domain.ProductCategory) *CategoryDTO {
	if c == nil {
		return nil
	}
	dto := &CategoryDTO{ID: c.ID, ShopID: c.ShopID, Name: c.Name, Priority: c.Priority}
	if !c.CreatedAt.IsZero() {
		dto.CreateTime = c.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toCategoryDTOs(categories []domain.ProductCategory) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = *toCategoryDTO(&categories[i])
	}
	return dtos
}

// CategoryRequest is the body accepted by POST /admin/shops/:shopId/categories.
type CategoryRequest struct {
	Name     string `json:"productCategoryName"`
	Priority int    `json:"priority"`
}

// ProductImageDTO is the JSON representation of a detail image.
type ProductImageDTO struct {
	ID         int64  `json:"productImgId"`
	ImgAddr    string `json:"imgAddr"`
	ImgDesc    string `json:"imgDesc"`
	Priority   int    `json:"priority"`
	CreateTime string `json:"createTime"`
}

// ProductDTO is the JSON representation of a product.
type ProductDTO struct {
	ID             int64               `json:"productId"`
	Name           string              `json:"productName"`
	Description    string              `json:"productDesc"`
	ImgAddr        string              `json:"imgAddr,omitempty"`
	NormalPrice    decimal.NullDecimal `json:"normalPrice"`
	PromotionPrice decimal.NullDecimal `json:"promotionPrice"`
	Priority       *int                `json:"priority"`
	EnableStatus   *int                `json:"enableStatus"`
	CreateTime     string              `json:"createTime"`
	LastEditTime   string              `json:"lastEditTime"`
	Category       *CategoryDTO        `json:"productCategory,omitempty"`
	Shop           *ShopDTO            `json:"shop,omitempty"`
	Images         []ProductImageDTO   `json:"productImgList,omitempty"`
}

func toProductDTO(p *domain.Product) ProductDTO {
	dto := ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		ImgAddr:        p.ImgAddr,
		NormalPrice:    p.NormalPrice,
		PromotionPrice: p.PromotionPrice,
		Priority:       p.Priority,
		CreateTime:     p.CreatedAt.Format(time.RFC3339),
		LastEditTime:   p.UpdatedAt.Format(time.RFC3339),
		Category:       toCategoryDTO(p.Category),
		Shop:           toShopDTO(p.Shop),
	}
	if p.EnableStatus != nil {
		status := int(*p.EnableStatus)
		dto.EnableStatus = &status
	}
	for _, img := range p.Images {
		dto.Images = append(dto.Images, ProductImageDTO{
			ID:         img.ID,
			ImgAddr:    img.ImgAddr,
			ImgDesc:    img.ImgDesc,
			Priority:   img.Priority,
			CreateTime: img.CreatedAt.Format(time.RFC3339),
		})
	}
	return dto
}

func toProductDTOs(products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i := range products {
		dtos[i] = toProductDTO(&products[i])
	}
	return dtos
}

// ProductRequest is the productStr JSON part of a product upload. Prices
// accept JSON numbers or strings.
type ProductRequest struct {
	ID             int64               `json:"productId"`
	Name           string              `json:"productName"`
	Description    string              `json:"productDesc"`
	NormalPrice    decimal.NullDecimal `json:"normalPrice"`
	PromotionPrice decimal.NullDecimal `json:"promotionPrice"`
	Priority       *int                `json:"priority"`
	EnableStatus   *int                `json:"enableStatus"`
	Category       *struct {
		ID int64 `json:"productCategoryId"`
	} `json:"productCategory"`
	Shop *struct {
		ID int64 `json:"shopId"`
	} `json:"shop"`
}

func (r ProductRequest) toDomain() *domain.Product {
	p := &domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		NormalPrice:    r.NormalPrice,
		PromotionPrice: r.PromotionPrice,
		Priority:       r.Priority,
	}
	if r.EnableStatus != nil {
		p.EnableStatus = domain.EnableStatus(*r.EnableStatus).Ptr()
	}
	if r.Category != nil && r.Category.ID != 0 {
		p.Category = &domain.ProductCategory{ID: r.Category.ID}
	}
	if r.Shop != nil {
		p.Shop = &domain.Shop{ID: r.Shop.ID}
	}
	return p
}
