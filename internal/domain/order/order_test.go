package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress("123 Main St", "Springfield", "62704", "USA")
	require.NoError(t, err)
	return addr
}

func testItems() []OrderItem {
	return []OrderItem{
		{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Name:       "Classic Tee",
			Size:       "M",
			Color:      "Black",
			UnitPrice:  decimal.NewFromInt(25),
			Quantity:   2,
		},
	}
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()
	checkoutID := uuid.New()

	t.Run("creates pending order and computes total", func(t *testing.T) {
		o, err := NewOrder(userID, checkoutID, testItems(), testAddress(t), "PayPal")
		require.NoError(t, err)

		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, checkoutID, o.CheckoutID)
		assert.True(t, o.TotalPrice.Equal(decimal.NewFromInt(50)))
		require.Len(t, o.Items, 1)
		assert.Equal(t, o.ID, o.Items[0].OrderID)
		assert.True(t, o.IsOwnedBy(userID))
		assert.False(t, o.IsOwnedBy(uuid.New()))
	})

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := NewOrder(userID, checkoutID, nil, testAddress(t), "PayPal")
		assert.Error(t, err)
	})

	t.Run("rejects empty shipping address", func(t *testing.T) {
		_, err := NewOrder(userID, checkoutID, testItems(), valueobject.EmptyAddress(), "PayPal")
		assert.Error(t, err)
	})
}

func TestOrderLifecycle(t *testing.T) {
	o, err := NewOrder(uuid.New(), uuid.New(), testItems(), testAddress(t), "PayPal")
	require.NoError(t, err)

	paidAt := time.Now().Add(-time.Minute)
	require.NoError(t, o.MarkPaid(paidAt))
	assert.Equal(t, OrderStatusPaid, o.Status)
	require.NotNil(t, o.PaidAt)
	assert.True(t, o.IsPaid())

	t.Run("cannot deliver twice", func(t *testing.T) {
		require.NoError(t, o.MarkDelivered())
		assert.Error(t, o.MarkDelivered())
	})

	t.Run("delivered order cannot be cancelled", func(t *testing.T) {
		assert.Error(t, o.Cancel())
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("pending order can be cancelled", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New(), testItems(), testAddress(t), "PayPal")
		require.NoError(t, err)
		require.NoError(t, o.Cancel())
		assert.Equal(t, OrderStatusCancelled, o.Status)
	})

	t.Run("paid order can be cancelled", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New(), testItems(), testAddress(t), "PayPal")
		require.NoError(t, err)
		require.NoError(t, o.MarkPaid(time.Now()))
		require.NoError(t, o.Cancel())
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPaid, OrderStatusDelivered, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPaid.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("delivered")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, status)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}
