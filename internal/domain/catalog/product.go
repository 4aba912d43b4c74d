package catalog

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// Gender is the target audience of an apparel product
type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string           `gorm:"type:varchar(200);not null"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CountInStock  int              `gorm:"not null;default:0"`
	Category      string           `gorm:"type:varchar(100);index"`
	Brand         string           `gorm:"type:varchar(100);index"`
	Collection    string           `gorm:"type:varchar(100);index"`
	Material      string           `gorm:"type:varchar(100)"`
	Gender        Gender           `gorm:"type:varchar(20)"`
	Sizes         StringList       `gorm:"type:jsonb"`
	Colors        StringList       `gorm:"type:jsonb"`
	Images        ImageList        `gorm:"type:jsonb"`
	IsFeatured    bool             `gorm:"not null;default:false"`
	Status        ProductStatus    `gorm:"type:varchar(20);not null;default:'draft';index"`
	Rating        decimal.Decimal  `gorm:"type:decimal(3,2);not null;default:0"`
	NumReviews    int              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in draft status
func NewProduct(sku, name string, price valueobject.Money) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             price.Amount(),
		Sizes:             StringList{},
		Colors:            StringList{},
		Images:            ImageList{},
		Status:            ProductStatusDraft,
		Rating:            decimal.Zero,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPricing sets the list price and an optional discount price.
// The discount price, when present, must be lower than the list price.
func (p *Product) SetPricing(price valueobject.Money, discountPrice *valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if discountPrice != nil {
		if discountPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Discount price cannot be negative")
		}
		if discountPrice.Amount().GreaterThanOrEqual(price.Amount()) {
			return shared.NewDomainError("INVALID_PRICE", "Discount price must be lower than the list price")
		}
	}

	p.Price = price.Amount()
	if discountPrice != nil {
		amount := discountPrice.Amount()
		p.DiscountPrice = &amount
	} else {
		p.DiscountPrice = nil
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStock sets the available stock count
func (p *Product) SetStock(count int) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock count cannot be negative")
	}

	p.CountInStock = count
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DecrementStock reduces stock by the given quantity
func (p *Product) DecrementStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if qty > p.CountInStock {
		return shared.ErrInsufficientStock
	}

	p.CountInStock -= qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetTaxonomy sets the category, brand, collection, material and gender
func (p *Product) SetTaxonomy(category, brand, collection, material string, gender Gender) error {
	for _, v := range []string{category, brand, collection, material} {
		if len(v) > 100 {
			return shared.NewDomainError("INVALID_INPUT", "Taxonomy values cannot exceed 100 characters")
		}
	}
	switch gender {
	case "", GenderMen, GenderWomen, GenderUnisex:
	default:
		return shared.NewDomainError("INVALID_INPUT", "Gender must be Men, Women, or Unisex")
	}

	p.Category = category
	p.Brand = brand
	p.Collection = collection
	p.Material = material
	p.Gender = gender
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetVariants sets the available sizes and colors
func (p *Product) SetVariants(sizes, colors []string) {
	if sizes == nil {
		sizes = []string{}
	}
	if colors == nil {
		colors = []string{}
	}
	p.Sizes = sizes
	p.Colors = colors
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetImages replaces the product images
func (p *Product) SetImages(images []Image) error {
	for _, img := range images {
		if _, err := url.ParseRequestURI(img.URL); err != nil {
			return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL is not valid")
		}
	}
	if images == nil {
		images = []Image{}
	}
	p.Images = images
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetFeatured marks or unmarks the product as featured
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// RecordReview folds a new review score into the aggregate rating
func (p *Product) RecordReview(score decimal.Decimal) error {
	if score.IsNegative() || score.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}

	total := p.Rating.Mul(decimal.NewFromInt(int64(p.NumReviews))).Add(score)
	p.NumReviews++
	p.Rating = total.Div(decimal.NewFromInt(int64(p.NumReviews))).Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Publish makes the product visible in the public catalog
func (p *Product) Publish() error {
	if p.Status == ProductStatusPublished {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Product is already published")
	}
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("CANNOT_PUBLISH", "Cannot publish an archived product")
	}

	p.Status = ProductStatusPublished
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Unpublish hides the product from the public catalog
func (p *Product) Unpublish() error {
	if p.Status != ProductStatusPublished {
		return shared.NewDomainError("NOT_PUBLISHED", "Product is not published")
	}

	p.Status = ProductStatusDraft
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Archive retires the product. An archived product cannot be republished.
func (p *Product) Archive() error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Product is already archived")
	}

	p.Status = ProductStatusArchived
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsPublished returns true if the product is visible in the public catalog
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// InStock returns true if the product has stock available
func (p *Product) InStock() bool {
	return p.CountInStock > 0
}

// EffectivePrice returns the price a buyer pays: the discount price when
// one is set, otherwise the list price.
func (p *Product) EffectivePrice() valueobject.Money {
	if p.DiscountPrice != nil {
		return valueobject.NewMoneyUSD(*p.DiscountPrice)
	}
	return valueobject.NewMoneyUSD(p.Price)
}

// GetPriceMoney returns the list price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "Product SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
