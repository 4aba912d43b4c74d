package checkout

import (
	"context"

	"github.com/google/uuid"
)

// CheckoutRepository defines the interface for checkout persistence
type CheckoutRepository interface {
	// FindByID finds a checkout by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Checkout, error)

	// FindPendingByUserID finds the user's most recent pending checkout
	FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*Checkout, error)

	// Save creates or updates a checkout together with its items
	Save(ctx context.Context, checkout *Checkout) error
}
