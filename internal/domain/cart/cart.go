package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CartItem is a line item inside a cart. A line is identified by the
// (product, size, color) tuple; adding the same tuple again merges quantity.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	ImageURL  string          `gorm:"type:varchar(500)"`
	Size      string          `gorm:"type:varchar(50)"`
	Color     string          `gorm:"type:varchar(50)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal returns the line total (unit price times quantity)
func (i *CartItem) Subtotal() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice).MultiplyByInt(int64(i.Quantity))
}

// matches reports whether the line covers the same variant
func (i *CartItem) matches(productID uuid.UUID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// Cart is the aggregate root for a shopping cart. A cart belongs either to
// a registered user (UserID set) or to an anonymous guest (GuestID set).
type Cart struct {
	shared.BaseAggregateRoot
	UserID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	GuestID    string          `gorm:"type:varchar(100);index"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewUserCart creates an empty cart owned by a registered user
func NewUserCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            &userID,
		Items:             []CartItem{},
		TotalPrice:        decimal.Zero,
	}
}

// NewGuestCart creates an empty cart owned by an anonymous guest
func NewGuestCart(guestID string) (*Cart, error) {
	if guestID == "" {
		return nil, shared.NewDomainError("INVALID_GUEST_ID", "Guest ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GuestID:           guestID,
		Items:             []CartItem{},
		TotalPrice:        decimal.Zero,
	}, nil
}

// AddItem adds a product variant to the cart. When a line with the same
// (product, size, color) tuple exists, the quantities are merged; the unit
// price of the existing line is refreshed to the supplied price.
func (c *Cart) AddItem(productID uuid.UUID, name, imageURL, size, color string, unitPrice valueobject.Money, qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for idx := range c.Items {
		if c.Items[idx].matches(productID, size, color) {
			c.Items[idx].Quantity += qty
			c.Items[idx].UnitPrice = unitPrice.Amount()
			c.Items[idx].UpdatedAt = time.Now()
			c.recalculateTotal()
			return nil
		}
	}

	item := CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  productID,
		Name:       name,
		ImageURL:   imageURL,
		Size:       size,
		Color:      color,
		UnitPrice:  unitPrice.Amount(),
		Quantity:   qty,
	}
	c.Items = append(c.Items, item)
	c.recalculateTotal()

	return nil
}

// UpdateItemQuantity replaces the quantity of an existing line
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, size, color string, qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.Items {
		if c.Items[idx].matches(productID, size, color) {
			c.Items[idx].Quantity = qty
			c.Items[idx].UpdatedAt = time.Now()
			c.recalculateTotal()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item is not in the cart")
}

// ItemQuantity returns the quantity of the matching line, or zero when
// the cart has no such line
func (c *Cart) ItemQuantity(productID uuid.UUID, size, color string) int {
	for idx := range c.Items {
		if c.Items[idx].matches(productID, size, color) {
			return c.Items[idx].Quantity
		}
	}
	return 0
}

// RemoveItem removes a line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID, size, color string) error {
	for idx := range c.Items {
		if c.Items[idx].matches(productID, size, color) {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.recalculateTotal()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Item is not in the cart")
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.recalculateTotal()
}

// MergeFrom folds another cart's lines into this cart. Matching variants
// merge quantities; the source cart is left untouched.
func (c *Cart) MergeFrom(other *Cart) error {
	for _, item := range other.Items {
		price := valueobject.NewMoneyUSD(item.UnitPrice)
		if err := c.AddItem(item.ProductID, item.Name, item.ImageURL, item.Size, item.Color, price, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IsGuestCart returns true if the cart belongs to an anonymous guest
func (c *Cart) IsGuestCart() bool {
	return c.UserID == nil
}

// Total returns the cart total as a Money value object
func (c *Cart) Total() valueobject.Money {
	return valueobject.NewMoneyUSD(c.TotalPrice)
}

func (c *Cart) recalculateTotal() {
	total := decimal.Zero
	for idx := range c.Items {
		total = total.Add(c.Items[idx].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[idx].Quantity))))
	}
	c.TotalPrice = total
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
