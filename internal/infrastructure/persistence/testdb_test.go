package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/newsletter"
	"github.com/storefront/backend/internal/domain/order"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&checkout.Checkout{},
		&checkout.CheckoutItem{},
		&order.Order{},
		&order.OrderItem{},
		&identity.User{},
		&newsletter.Subscriber{},
	)
	require.NoError(t, err)

	return db
}
