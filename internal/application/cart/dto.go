package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// Owner identifies who a cart belongs to: a registered user, or an
// anonymous guest identified by a client-generated token.
type Owner struct {
	UserID  *uuid.UUID
	GuestID string
}

// IsGuest returns true when no registered user is attached
func (o Owner) IsGuest() bool {
	return o.UserID == nil
}

// AddItemRequest represents a request to add a product variant to a cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a request to change a line's quantity
type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// RemoveItemRequest represents a request to remove a line from a cart
type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Size      string    `json:"size" binding:"max=50"`
	Color     string    `json:"color" binding:"max=50"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	UserID     *uuid.UUID         `json:"userId,omitempty"`
	GuestID    string             `json:"guestId,omitempty"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		items[i] = CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
	}

	return CartResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		GuestID:    c.GuestID,
		Items:      items,
		TotalPrice: c.TotalPrice,
		UpdatedAt:  c.UpdatedAt,
	}
}
