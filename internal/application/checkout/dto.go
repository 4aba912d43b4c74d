package checkout

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressRequest represents a shipping address in checkout requests
type AddressRequest struct {
	Address    string `json:"address" binding:"required,max=500"`
	City       string `json:"city" binding:"required,max=100"`
	PostalCode string `json:"postalCode" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,max=100"`
}

// CreateCheckoutRequest represents a request to start a checkout session
type CreateCheckoutRequest struct {
	ShippingAddress AddressRequest `json:"shippingAddress" binding:"required"`
	PaymentMethod   string         `json:"paymentMethod" binding:"required,max=50"`
}

// PayCheckoutRequest represents a payment result reported by the client.
// The payment details payload is opaque and recorded as-is.
type PayCheckoutRequest struct {
	PaymentStatus  string          `json:"paymentStatus" binding:"required,max=50"`
	PaymentDetails json.RawMessage `json:"paymentDetails"`
}

// CheckoutItemResponse represents a checkout line in API responses
type CheckoutItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CheckoutResponse represents a checkout session in API responses
type CheckoutResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"userId"`
	Items           []CheckoutItemResponse `json:"items"`
	ShippingAddress valueobject.Address    `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TotalPrice      decimal.Decimal        `json:"totalPrice"`
	Status          string                 `json:"status"`
	IsPaid          bool                   `json:"isPaid"`
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	FinalizedAt     *time.Time             `json:"finalizedAt,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToCheckoutResponse converts a domain Checkout to CheckoutResponse
func ToCheckoutResponse(c *checkout.Checkout) CheckoutResponse {
	items := make([]CheckoutItemResponse, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		items[i] = CheckoutItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return CheckoutResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		Items:           items,
		ShippingAddress: c.ShippingAddress,
		PaymentMethod:   c.PaymentMethod,
		TotalPrice:      c.TotalPrice,
		Status:          string(c.Status),
		IsPaid:          c.IsPaid(),
		PaidAt:          c.PaidAt,
		FinalizedAt:     c.FinalizedAt,
		CreatedAt:       c.CreatedAt,
	}
}
