package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutRepository is a mock implementation of CheckoutRepository
type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*checkout.Checkout, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) Save(ctx context.Context, c *checkout.Checkout) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByGuestID(ctx context.Context, guestID string) (*cart.Cart, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBestSellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindNewArrivals(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindSimilar(ctx context.Context, product *catalog.Product, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, product, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCheckoutID(ctx context.Context, checkoutID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, checkoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeIdempotencyStore is a map-backed IdempotencyStore for tests
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (f *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func (f *fakeIdempotencyStore) Close() error { return nil }

type serviceFixture struct {
	checkoutRepo *MockCheckoutRepository
	cartRepo     *MockCartRepository
	productRepo  *MockProductRepository
	orderRepo    *MockOrderRepository
	store        *fakeIdempotencyStore
	service      *CheckoutService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		checkoutRepo: new(MockCheckoutRepository),
		cartRepo:     new(MockCartRepository),
		productRepo:  new(MockProductRepository),
		orderRepo:    new(MockOrderRepository),
		store:        newFakeIdempotencyStore(),
	}
	f.service = NewCheckoutService(f.checkoutRepo, f.cartRepo, f.productRepo, f.orderRepo,
		f.store, shared.DefaultIdempotencyConfig())
	return f
}

func addressRequest() AddressRequest {
	return AddressRequest{
		Address:    "123 Main St",
		City:       "Springfield",
		PostalCode: "62704",
		Country:    "USA",
	}
}

func cartWithProduct(t *testing.T, userID uuid.UUID) (*cart.Cart, *catalog.Product) {
	t.Helper()
	product, err := catalog.NewProduct("TEE-001", "Classic Tee", valueobject.NewMoneyUSDFromFloat(25))
	require.NoError(t, err)
	require.NoError(t, product.Publish())

	c := cart.NewUserCart(userID)
	require.NoError(t, c.AddItem(product.ID, product.Name, "", "M", "Black", product.EffectivePrice(), 2))
	return c, product
}

func paidCheckout(t *testing.T, userID uuid.UUID) *checkout.Checkout {
	t.Helper()
	addr, err := valueobject.NewAddress("123 Main St", "Springfield", "62704", "USA")
	require.NoError(t, err)

	session, err := checkout.NewCheckout(userID, []checkout.CheckoutItem{{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  uuid.New(),
		Name:       "Classic Tee",
		Size:       "M",
		Color:      "Black",
		UnitPrice:  decimalFromInt(25),
		Quantity:   2,
	}}, addr, "PayPal")
	require.NoError(t, err)
	require.NoError(t, session.Pay("completed", `{"transactionId":"tx-1"}`))
	return session
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestCheckoutServiceCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates a pending checkout from the cart", func(t *testing.T) {
		f := newFixture()
		c, product := cartWithProduct(t, userID)

		f.cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
		f.checkoutRepo.On("Save", ctx, mock.AnythingOfType("*checkout.Checkout")).Return(nil)

		resp, err := f.service.Create(ctx, userID, CreateCheckoutRequest{
			ShippingAddress: addressRequest(),
			PaymentMethod:   "PayPal",
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "50", resp.TotalPrice.String())

		f.checkoutRepo.AssertExpectations(t)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		f := newFixture()
		f.cartRepo.On("FindByUserID", ctx, userID).Return(cart.NewUserCart(userID), nil)

		_, err := f.service.Create(ctx, userID, CreateCheckoutRequest{
			ShippingAddress: addressRequest(),
			PaymentMethod:   "PayPal",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cart is empty")
	})

	t.Run("rejects a missing cart", func(t *testing.T) {
		f := newFixture()
		f.cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, userID, CreateCheckoutRequest{
			ShippingAddress: addressRequest(),
			PaymentMethod:   "PayPal",
		})
		assert.Error(t, err)
	})

	t.Run("rejects when a cart product vanished", func(t *testing.T) {
		f := newFixture()
		c, product := cartWithProduct(t, userID)

		f.cartRepo.On("FindByUserID", ctx, userID).Return(c, nil)
		f.productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{}, nil)

		_, err := f.service.Create(ctx, userID, CreateCheckoutRequest{
			ShippingAddress: addressRequest(),
			PaymentMethod:   "PayPal",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no longer exists")
	})
}

func TestCheckoutServicePay(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("records the payment", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)
		// rebuild a pending one
		pending, err := checkout.NewCheckout(userID, session.Items, session.ShippingAddress, "PayPal")
		require.NoError(t, err)

		f.checkoutRepo.On("FindByID", ctx, pending.ID).Return(pending, nil)
		f.checkoutRepo.On("Save", ctx, pending).Return(nil)

		resp, err := f.service.Pay(ctx, userID, pending.ID, PayCheckoutRequest{
			PaymentStatus:  "completed",
			PaymentDetails: []byte(`{"transactionId":"tx-9"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.True(t, resp.IsPaid)
	})

	t.Run("forbids paying someone else's checkout", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)
		f.checkoutRepo.On("FindByID", ctx, session.ID).Return(session, nil)

		_, err := f.service.Pay(ctx, uuid.New(), session.ID, PayCheckoutRequest{PaymentStatus: "completed"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestCheckoutServiceFinalize(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates an order and clears the cart", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)
		userCart, _ := cartWithProduct(t, userID)

		f.checkoutRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		f.checkoutRepo.On("Save", ctx, session).Return(nil)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
		f.cartRepo.On("FindByUserID", ctx, userID).Return(userCart, nil)
		f.cartRepo.On("Save", ctx, userCart).Return(nil)

		resp, err := f.service.Finalize(ctx, userID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, resp.CheckoutID)
		assert.Equal(t, "paid", resp.Status)
		assert.True(t, resp.IsPaid)
		assert.True(t, userCart.IsEmpty())
		assert.True(t, session.IsFinalized())

		f.orderRepo.AssertExpectations(t)
	})

	t.Run("retry returns the already-created order", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)
		require.NoError(t, session.Finalize())

		addr := session.ShippingAddress
		existing, err := order.NewOrder(userID, session.ID, []order.OrderItem{{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Name:       "Classic Tee",
			UnitPrice:  decimalFromInt(25),
			Quantity:   2,
		}}, addr, "PayPal")
		require.NoError(t, err)

		f.checkoutRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		f.checkoutRepo.On("Save", ctx, session).Return(nil)
		f.orderRepo.On("FindByCheckoutID", ctx, session.ID).Return(existing, nil)
		f.cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		resp, err := f.service.Finalize(ctx, userID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)

		f.orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("idempotency marker short-circuits a duplicate attempt", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)

		_, err := f.store.MarkProcessed(ctx, "checkout:finalize:"+session.ID.String(), time.Hour)
		require.NoError(t, err)

		existing, err := order.NewOrder(userID, session.ID, []order.OrderItem{{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Name:       "Classic Tee",
			UnitPrice:  decimalFromInt(25),
			Quantity:   2,
		}}, session.ShippingAddress, "PayPal")
		require.NoError(t, err)

		f.checkoutRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		f.checkoutRepo.On("Save", ctx, session).Return(nil)
		f.orderRepo.On("FindByCheckoutID", ctx, session.ID).Return(existing, nil)
		f.cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		resp, err := f.service.Finalize(ctx, userID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)

		f.orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("retry finishes what an interrupted finalize left behind", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)
		userCart, _ := cartWithProduct(t, userID)

		// The first attempt saved the order and marked the key, then died
		// before updating the checkout row or clearing the cart.
		_, err := f.store.MarkProcessed(ctx, "checkout:finalize:"+session.ID.String(), time.Hour)
		require.NoError(t, err)

		existing, err := order.NewOrder(userID, session.ID, []order.OrderItem{{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Name:       "Classic Tee",
			UnitPrice:  decimalFromInt(25),
			Quantity:   2,
		}}, session.ShippingAddress, "PayPal")
		require.NoError(t, err)

		f.checkoutRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		f.checkoutRepo.On("Save", ctx, session).Return(nil)
		f.orderRepo.On("FindByCheckoutID", ctx, session.ID).Return(existing, nil)
		f.cartRepo.On("FindByUserID", ctx, userID).Return(userCart, nil)
		f.cartRepo.On("Save", ctx, userCart).Return(nil)

		resp, err := f.service.Finalize(ctx, userID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)
		assert.True(t, session.IsFinalized())
		assert.True(t, userCart.IsEmpty())

		f.orderRepo.AssertNotCalled(t, "Save")
		f.checkoutRepo.AssertExpectations(t)
		f.cartRepo.AssertExpectations(t)
	})

	t.Run("cannot finalize an unpaid checkout", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)
		pending, err := checkout.NewCheckout(userID, session.Items, session.ShippingAddress, "PayPal")
		require.NoError(t, err)

		f.checkoutRepo.On("FindByID", ctx, pending.ID).Return(pending, nil)

		_, err = f.service.Finalize(ctx, userID, pending.ID)
		assert.Error(t, err)
	})

	t.Run("forbids finalizing someone else's checkout", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)
		f.checkoutRepo.On("FindByID", ctx, session.ID).Return(session, nil)

		_, err := f.service.Finalize(ctx, uuid.New(), session.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("order save conflict falls back to the existing order", func(t *testing.T) {
		f := newFixture()
		session := paidCheckout(t, userID)

		existing, err := order.NewOrder(userID, session.ID, []order.OrderItem{{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Name:       "Classic Tee",
			UnitPrice:  decimalFromInt(25),
			Quantity:   2,
		}}, session.ShippingAddress, "PayPal")
		require.NoError(t, err)

		f.checkoutRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		f.checkoutRepo.On("Save", ctx, session).Return(nil)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(shared.ErrAlreadyExists)
		f.orderRepo.On("FindByCheckoutID", ctx, session.ID).Return(existing, nil)
		f.cartRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		resp, err := f.service.Finalize(ctx, userID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)
	})
}
