package newsletter

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// SubscriberRepository defines the interface for subscriber persistence
type SubscriberRepository interface {
	// FindByEmail finds a subscriber by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)

	// FindAll finds all subscribers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Subscriber, error)

	// Save creates or updates a subscriber
	Save(ctx context.Context, subscriber *Subscriber) error

	// ExistsByEmail checks if a subscriber with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
