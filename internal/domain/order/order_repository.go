package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByCheckoutID finds the order created from a checkout
	FindByCheckoutID(ctx context.Context, checkoutID uuid.UUID) (*Order, error)

	// FindByUserID finds a user's orders, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByUserID counts a user's orders
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
