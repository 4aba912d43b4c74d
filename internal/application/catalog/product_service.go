package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, valueobject.NewMoneyUSD(req.Price))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	var discount *valueobject.Money
	if req.DiscountPrice != nil {
		m := valueobject.NewMoneyUSD(*req.DiscountPrice)
		discount = &m
	}
	if err := product.SetPricing(valueobject.NewMoneyUSD(req.Price), discount); err != nil {
		return nil, err
	}

	if err := product.SetStock(req.CountInStock); err != nil {
		return nil, err
	}

	if err := product.SetTaxonomy(req.Category, req.Brand, req.Collection, req.Material, catalog.Gender(req.Gender)); err != nil {
		return nil, err
	}

	product.SetVariants(req.Sizes, req.Colors)

	if err := product.SetImages(toImages(req.Images)); err != nil {
		return nil, err
	}

	product.SetFeatured(req.IsFeatured)

	if req.IsPublished {
		if err := product.Publish(); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if req.Price != nil || req.DiscountPrice != nil {
		price := product.Price
		if req.Price != nil {
			price = *req.Price
		}
		discountAmount := product.DiscountPrice
		if req.DiscountPrice != nil {
			discountAmount = req.DiscountPrice
		}
		var discount *valueobject.Money
		if discountAmount != nil {
			m := valueobject.NewMoneyUSD(*discountAmount)
			discount = &m
		}
		if err := product.SetPricing(valueobject.NewMoneyUSD(price), discount); err != nil {
			return nil, err
		}
	}

	if req.CountInStock != nil {
		if err := product.SetStock(*req.CountInStock); err != nil {
			return nil, err
		}
	}

	if req.Category != nil || req.Brand != nil || req.Collection != nil || req.Material != nil || req.Gender != nil {
		category := product.Category
		brand := product.Brand
		collection := product.Collection
		material := product.Material
		gender := product.Gender
		if req.Category != nil {
			category = *req.Category
		}
		if req.Brand != nil {
			brand = *req.Brand
		}
		if req.Collection != nil {
			collection = *req.Collection
		}
		if req.Material != nil {
			material = *req.Material
		}
		if req.Gender != nil {
			gender = catalog.Gender(*req.Gender)
		}
		if err := product.SetTaxonomy(category, brand, collection, material, gender); err != nil {
			return nil, err
		}
	}

	if req.Sizes != nil || req.Colors != nil {
		sizes := []string(product.Sizes)
		colors := []string(product.Colors)
		if req.Sizes != nil {
			sizes = req.Sizes
		}
		if req.Colors != nil {
			colors = req.Colors
		}
		product.SetVariants(sizes, colors)
	}

	if req.Images != nil {
		if err := product.SetImages(toImages(req.Images)); err != nil {
			return nil, err
		}
	}

	if req.IsFeatured != nil {
		product.SetFeatured(*req.IsFeatured)
	}

	if req.IsPublished != nil && *req.IsPublished != product.IsPublished() {
		if *req.IsPublished {
			err = product.Publish()
		} else {
			err = product.Unpublish()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

// GetByID retrieves a product by ID regardless of publication status
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetPublishedByID retrieves a published product for the public catalog.
// Unpublished products are reported as not found.
func (s *ProductService) GetPublishedByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsPublished() {
		return nil, shared.ErrNotFound
	}

	response := ToProductResponse(product)
	return &response, nil
}

// ListPublished lists published products for the public catalog
func (s *ProductService) ListPublished(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	domainFilter.PublishedOnly = true

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListAll lists all products for the admin panel
func (s *ProductService) ListAll(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// BestSeller returns the top-rated published product
func (s *ProductService) BestSeller(ctx context.Context) (*ProductResponse, error) {
	products, err := s.productRepo.FindBestSellers(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, shared.ErrNotFound
	}

	response := ToProductResponse(&products[0])
	return &response, nil
}

// NewArrivals returns the most recently added published products
func (s *ProductService) NewArrivals(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 8
	}

	products, err := s.productRepo.FindNewArrivals(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Similar returns published products similar to the given one
func (s *ProductService) Similar(ctx context.Context, productID uuid.UUID, limit int) ([]ProductResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 4
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindSimilar(ctx, product, limit)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

func toImages(reqs []ImageRequest) []catalog.Image {
	images := make([]catalog.Image, len(reqs))
	for i, r := range reqs {
		images[i] = catalog.Image{URL: r.URL, AltText: r.AltText}
	}
	return images
}

func toDomainFilter(filter ProductListFilter) catalog.ProductFilter {
	domainFilter := catalog.DefaultProductFilter()
	domainFilter.Search = filter.Search
	domainFilter.Category = filter.Category
	domainFilter.Brand = filter.Brand
	domainFilter.Collection = filter.Collection
	domainFilter.Material = filter.Material
	domainFilter.Gender = catalog.Gender(filter.Gender)
	domainFilter.Size = filter.Size
	domainFilter.Color = filter.Color

	if filter.MinPrice != nil {
		min := decimal.NewFromFloat(*filter.MinPrice)
		domainFilter.MinPrice = &min
	}
	if filter.MaxPrice != nil {
		max := decimal.NewFromFloat(*filter.MaxPrice)
		domainFilter.MaxPrice = &max
	}

	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	switch filter.SortBy {
	case "priceAsc":
		domainFilter.OrderBy = "price"
		domainFilter.OrderDir = "asc"
	case "priceDesc":
		domainFilter.OrderBy = "price"
		domainFilter.OrderDir = "desc"
	case "popularity":
		domainFilter.OrderBy = "rating"
		domainFilter.OrderDir = "desc"
	case "newest":
		domainFilter.OrderBy = "created_at"
		domainFilter.OrderDir = "desc"
	}

	return domainFilter
}
