package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	shared.Filter
	Category      string
	Brand         string
	Collection    string
	Material      string
	Gender        Gender
	Size          string
	Color         string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Status        ProductStatus
	OnlyFeatured  bool
	PublishedOnly bool
}

// DefaultProductFilter returns a product filter with default pagination
func DefaultProductFilter() ProductFilter {
	return ProductFilter{Filter: shared.DefaultFilter()}
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// FindBestSellers finds the top-rated published products
	FindBestSellers(ctx context.Context, limit int) ([]Product, error)

	// FindNewArrivals finds the most recently created published products
	FindNewArrivals(ctx context.Context, limit int) ([]Product, error)

	// FindSimilar finds published products sharing category and gender
	// with the given product, excluding the product itself
	FindSimilar(ctx context.Context, product *Product, limit int) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
