package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// UpdateOrderStatusRequest represents an admin request to change an
// order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid delivered cancelled"`
}

// OrderListFilter represents filter options for order listings
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending paid delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"userId"`
	CheckoutID      uuid.UUID           `json:"checkoutId"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress valueobject.Address `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	TotalPrice      decimal.Decimal     `json:"totalPrice"`
	Status          string              `json:"status"`
	IsPaid          bool                `json:"isPaid"`
	PaidAt          *time.Time          `json:"paidAt,omitempty"`
	IsDelivered     bool                `json:"isDelivered"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		CheckoutID:      o.CheckoutID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		TotalPrice:      o.TotalPrice,
		Status:          string(o.Status),
		IsPaid:          o.IsPaid(),
		PaidAt:          o.PaidAt,
		IsDelivered:     o.Status == order.OrderStatusDelivered,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders to responses
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
