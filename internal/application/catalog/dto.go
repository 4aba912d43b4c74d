package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ImageRequest represents an image in product requests
type ImageRequest struct {
	URL     string `json:"url" binding:"required,url"`
	AltText string `json:"altText" binding:"max=200"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU           string           `json:"sku" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=5000"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	CountInStock  int              `json:"countInStock" binding:"min=0"`
	Category      string           `json:"category" binding:"max=100"`
	Brand         string           `json:"brand" binding:"max=100"`
	Collection    string           `json:"collection" binding:"max=100"`
	Material      string           `json:"material" binding:"max=100"`
	Gender        string           `json:"gender" binding:"omitempty,oneof=Men Women Unisex"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	Images        []ImageRequest   `json:"images" binding:"dive"`
	IsFeatured    bool             `json:"isFeatured"`
	IsPublished   bool             `json:"isPublished"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	CountInStock  *int             `json:"countInStock" binding:"omitempty,min=0"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Brand         *string          `json:"brand" binding:"omitempty,max=100"`
	Collection    *string          `json:"collection" binding:"omitempty,max=100"`
	Material      *string          `json:"material" binding:"omitempty,max=100"`
	Gender        *string          `json:"gender" binding:"omitempty,oneof=Men Women Unisex"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	Images        []ImageRequest   `json:"images" binding:"omitempty,dive"`
	IsFeatured    *bool            `json:"isFeatured"`
	IsPublished   *bool            `json:"isPublished"`
}

// ProductListFilter represents filter options for the product listing
type ProductListFilter struct {
	Search     string   `form:"search"`
	Category   string   `form:"category"`
	Brand      string   `form:"brand"`
	Collection string   `form:"collection"`
	Material   string   `form:"material"`
	Gender     string   `form:"gender" binding:"omitempty,oneof=Men Women Unisex"`
	Size       string   `form:"size"`
	Color      string   `form:"color"`
	MinPrice   *float64 `form:"minPrice"`
	MaxPrice   *float64 `form:"maxPrice"`
	SortBy     string   `form:"sortBy" binding:"omitempty,oneof=priceAsc priceDesc popularity newest"`
	Page       int      `form:"page" binding:"omitempty,min=1"`
	PageSize   int      `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	CountInStock  int              `json:"countInStock"`
	Category      string           `json:"category"`
	Brand         string           `json:"brand"`
	Collection    string           `json:"collection"`
	Material      string           `json:"material"`
	Gender        string           `json:"gender"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	Images        []catalog.Image  `json:"images"`
	IsFeatured    bool             `json:"isFeatured"`
	Status        string           `json:"status"`
	Rating        decimal.Decimal  `json:"rating"`
	NumReviews    int              `json:"numReviews"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CountInStock:  p.CountInStock,
		Category:      p.Category,
		Brand:         p.Brand,
		Collection:    p.Collection,
		Material:      p.Material,
		Gender:        string(p.Gender),
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		Images:        p.Images,
		IsFeatured:    p.IsFeatured,
		Status:        string(p.Status),
		Rating:        p.Rating,
		NumReviews:    p.NumReviews,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
