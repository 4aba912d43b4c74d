package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CheckoutStatus represents the status of a checkout session
type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "pending"
	CheckoutStatusPaid      CheckoutStatus = "paid"
	CheckoutStatusFinalized CheckoutStatus = "finalized"
	CheckoutStatusCancelled CheckoutStatus = "cancelled"
)

// CanTransitionTo checks if the status transition is allowed
func (s CheckoutStatus) CanTransitionTo(target CheckoutStatus) bool {
	transitions := map[CheckoutStatus][]CheckoutStatus{
		CheckoutStatusPending:   {CheckoutStatusPaid, CheckoutStatusCancelled},
		CheckoutStatusPaid:      {CheckoutStatusFinalized},
		CheckoutStatusFinalized: {},
		CheckoutStatusCancelled: {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CheckoutItem is a snapshot of a cart line taken when the checkout was
// created. Later catalog changes do not affect it.
type CheckoutItem struct {
	shared.BaseEntity
	CheckoutID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Name       string          `gorm:"type:varchar(200);not null"`
	ImageURL   string          `gorm:"type:varchar(500)"`
	Size       string          `gorm:"type:varchar(50)"`
	Color      string          `gorm:"type:varchar(50)"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity   int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CheckoutItem) TableName() string {
	return "checkout_items"
}

// Subtotal returns the line total
func (i *CheckoutItem) Subtotal() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice).MultiplyByInt(int64(i.Quantity))
}

// Checkout is the aggregate root for a checkout session. It freezes the
// cart contents and shipping details, collects the payment result, and is
// eventually converted into an order.
type Checkout struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items           []CheckoutItem      `gorm:"foreignKey:CheckoutID;constraint:OnDelete:CASCADE"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	PaymentMethod   string              `gorm:"type:varchar(50);not null"`
	TotalPrice      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status          CheckoutStatus      `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   string              `gorm:"type:varchar(50)"`
	PaymentDetails  string              `gorm:"type:jsonb"`
	PaidAt          *time.Time
	FinalizedAt     *time.Time
}

// TableName returns the table name for GORM
func (Checkout) TableName() string {
	return "checkouts"
}

// NewCheckout creates a pending checkout from snapshot items
func NewCheckout(userID uuid.UUID, items []CheckoutItem, shippingAddress valueobject.Address, paymentMethod string) (*Checkout, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CHECKOUT", "Checkout requires at least one item")
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}

	c := &Checkout{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ShippingAddress:   shippingAddress,
		PaymentMethod:     paymentMethod,
		Status:            CheckoutStatusPending,
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		item.CheckoutID = c.ID
		c.Items = append(c.Items, item)
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.TotalPrice = total

	return c, nil
}

// Pay marks the checkout as paid and records the raw payment result.
// The payment payload is stored as-is; its interpretation belongs to the
// payment provider.
func (c *Checkout) Pay(paymentStatus, paymentDetails string) error {
	if !c.Status.CanTransitionTo(CheckoutStatusPaid) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			"Cannot pay a checkout in status "+string(c.Status))
	}

	now := time.Now()
	c.Status = CheckoutStatusPaid
	c.PaymentStatus = paymentStatus
	c.PaymentDetails = paymentDetails
	c.PaidAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// Finalize marks the checkout as converted into an order
func (c *Checkout) Finalize() error {
	if !c.Status.CanTransitionTo(CheckoutStatusFinalized) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			"Cannot finalize a checkout in status "+string(c.Status))
	}

	now := time.Now()
	c.Status = CheckoutStatusFinalized
	c.FinalizedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// Cancel abandons a pending checkout
func (c *Checkout) Cancel() error {
	if !c.Status.CanTransitionTo(CheckoutStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE_TRANSITION",
			"Cannot cancel a checkout in status "+string(c.Status))
	}

	c.Status = CheckoutStatusCancelled
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsPaid returns true if the checkout has been paid
func (c *Checkout) IsPaid() bool {
	return c.Status == CheckoutStatusPaid || c.Status == CheckoutStatusFinalized
}

// IsFinalized returns true if the checkout has been converted into an order
func (c *Checkout) IsFinalized() bool {
	return c.Status == CheckoutStatusFinalized
}

// Total returns the checkout total as a Money value object
func (c *Checkout) Total() valueobject.Money {
	return valueobject.NewMoneyUSD(c.TotalPrice)
}
