package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUserID finds the cart owned by a registered user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindByGuestID finds the cart owned by an anonymous guest
	FindByGuestID(ctx context.Context, guestID string) (*Cart, error)

	// Save creates or updates a cart together with its items
	Save(ctx context.Context, cart *Cart) error

	// Delete deletes a cart and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
