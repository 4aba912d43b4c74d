package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus converts a string into an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusPaid, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+s)
	}
}

// CanTransitionTo checks if the status transition is allowed.
// Delivered and cancelled are terminal; statuses cannot be skipped.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:      {OrderStatusDelivered, OrderStatusCancelled},
		OrderStatusDelivered: {},
		OrderStatusCancelled: {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderItem is an immutable snapshot of a purchased line
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	ImageURL  string          `gorm:"type:varchar(500)"`
	Size      string          `gorm:"type:varchar(50)"`
	Color     string          `gorm:"type:varchar(50)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns the line total
func (i *OrderItem) Subtotal() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice).MultiplyByInt(int64(i.Quantity))
}

// Order is the aggregate root for a placed order. Orders are created from
// finalized checkouts and are never deleted; cancellation is a status.
type Order struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	CheckoutID      uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	PaymentMethod   string              `gorm:"type:varchar(50);not null"`
	TotalPrice      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidAt          *time.Time
	DeliveredAt     *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order. CheckoutID records the checkout the
// order was created from; the unique index on it is the database-level
// guard against finalizing the same checkout twice.
func NewOrder(userID, checkoutID uuid.UUID, items []OrderItem, shippingAddress valueobject.Address, paymentMethod string) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order requires at least one item")
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		CheckoutID:        checkoutID,
		ShippingAddress:   shippingAddress,
		PaymentMethod:     paymentMethod,
		Status:            OrderStatusPending,
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	o.TotalPrice = total

	return o, nil
}

// MarkPaid transitions the order to paid at the given time
func (o *Order) MarkPaid(at time.Time) error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			"Cannot mark an order paid in status "+string(o.Status))
	}

	o.Status = OrderStatusPaid
	o.PaidAt = &at
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkDelivered transitions the order to delivered
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			"Cannot deliver an order in status "+string(o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel transitions the order to cancelled
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			"Cannot cancel an order in status "+string(o.Status))
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// TransitionTo applies an arbitrary target status through the state machine
func (o *Order) TransitionTo(target OrderStatus) error {
	switch target {
	case OrderStatusPaid:
		return o.MarkPaid(time.Now())
	case OrderStatusDelivered:
		return o.MarkDelivered()
	case OrderStatusCancelled:
		return o.Cancel()
	default:
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			"Cannot transition an order to status "+string(target))
	}
}

// IsOwnedBy returns true if the order belongs to the given user
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// IsPaid returns true if the order has been paid
func (o *Order) IsPaid() bool {
	return o.PaidAt != nil
}

// Total returns the order total as a Money value object
func (o *Order) Total() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalPrice)
}
