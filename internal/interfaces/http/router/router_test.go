package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	identityapp "github.com/storefront/backend/internal/application/identity"
	newsletterapp "github.com/storefront/backend/internal/application/newsletter"
	orderapp "github.com/storefront/backend/internal/application/order"
	uploadapp "github.com/storefront/backend/internal/application/upload"
	cartdom "github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	checkoutdom "github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/newsletter"
	orderdom "github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

type testEnv struct {
	engine     *gin.Engine
	db         *gorm.DB
	jwtService *auth.JWTService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&cartdom.Cart{},
		&cartdom.CartItem{},
		&checkoutdom.Checkout{},
		&checkoutdom.CheckoutItem{},
		&orderdom.Order{},
		&orderdom.OrderItem{},
		&identity.User{},
		&newsletter.Subscriber{},
	))

	productRepo := persistence.NewGormProductRepository(db)
	cartRepo := persistence.NewGormCartRepository(db)
	checkoutRepo := persistence.NewGormCheckoutRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	subscriberRepo := persistence.NewGormSubscriberRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-that-is-long-enough",
		TokenExpiration: time.Hour,
		Issuer:          "test",
	})

	idempotencyStore := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotencyStore.Close() })

	engine := New(Config{
		Logger:     zap.NewNop(),
		HTTP:       config.HTTPConfig{},
		JWTService: jwtService,
		Handlers: Handlers{
			System:  handler.NewSystemHandler(nil),
			Auth:    handler.NewAuthHandler(identityapp.NewAuthService(userRepo, jwtService)),
			Product: handler.NewProductHandler(catalogapp.NewProductService(productRepo)),
			Cart:    handler.NewCartHandler(cartapp.NewCartService(cartRepo, productRepo)),
			Checkout: handler.NewCheckoutHandler(checkoutapp.NewCheckoutService(
				checkoutRepo, cartRepo, productRepo, orderRepo,
				idempotencyStore, shared.DefaultIdempotencyConfig(),
			)),
			Order:      handler.NewOrderHandler(orderapp.NewOrderService(orderRepo)),
			User:       handler.NewUserHandler(identityapp.NewUserService(userRepo)),
			Subscriber: handler.NewSubscriberHandler(newsletterapp.NewSubscriberService(subscriberRepo)),
			Upload:     handler.NewUploadHandler(uploadapp.NewUploadService(storage.NewStubObjectStorage())),
		},
	})

	return &testEnv{engine: engine, db: db, jwtService: jwtService}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedProduct(t *testing.T, sku, name string, price float64, published bool) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, name, valueobject.NewMoneyUSD(decimal.NewFromFloat(price)))
	require.NoError(t, err)
	require.NoError(t, p.SetStock(25))
	if published {
		require.NoError(t, p.Publish())
	}
	require.NoError(t, persistence.NewGormProductRepository(e.db).Save(context.Background(), p))
	return p
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	admin, err := identity.NewAdmin("Admin", fmt.Sprintf("admin-%s@example.com", uuid.NewString()[:8]), "password123")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(e.db).Save(context.Background(), admin))
	token, err := e.jwtService.GenerateToken(admin.ID, admin.Email, string(admin.Role))
	require.NoError(t, err)
	return token
}

func TestRouter_Health(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/does-not-exist", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RegisterLoginProfile(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		Data identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Data.Token)
	assert.Equal(t, "customer", registered.Data.User.Role)

	w = env.request(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/auth/profile", nil, map[string]string{
		"Authorization": "Bearer " + registered.Data.Token,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")

	w = env.request(t, http.MethodGet, "/api/v1/auth/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_PublicProductListHidesDrafts(t *testing.T) {
	env := setupTestEnv(t)
	env.seedProduct(t, "TEE-1", "Published Tee", 19.99, true)
	env.seedProduct(t, "TEE-2", "Draft Tee", 29.99, false)

	w := env.request(t, http.MethodGet, "/api/v1/products", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Published Tee")
	assert.NotContains(t, body, "Draft Tee")
}

func TestRouter_GuestCartFlow(t *testing.T) {
	env := setupTestEnv(t)
	product := env.seedProduct(t, "HOOD-1", "Hoodie", 44.50, true)
	guestHeaders := map[string]string{"X-Guest-ID": "guest-abc"}

	w := env.request(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"productId": product.ID,
		"size":      "M",
		"color":     "Black",
		"quantity":  2,
	}, guestHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/cart", nil, guestHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Data cartapp.CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Data.Items, 1)
	assert.Equal(t, 2, got.Data.Items[0].Quantity)
	assert.True(t, got.Data.TotalPrice.Equal(decimal.NewFromFloat(89.00)))

	// Without auth or a guest header there is no cart to address.
	w = env.request(t, http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/admin/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var registered struct {
		Data identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	w = env.request(t, http.MethodGet, "/api/v1/admin/users", nil, map[string]string{
		"Authorization": "Bearer " + registered.Data.Token,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/admin/users", nil, map[string]string{
		"Authorization": "Bearer " + env.adminToken(t),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Subscribe(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/subscribe", map[string]string{
		"email": "news@example.com",
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/subscribe", map[string]string{
		"email": "news@example.com",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_CheckoutFinalizeFlow(t *testing.T) {
	env := setupTestEnv(t)
	product := env.seedProduct(t, "CAP-1", "Cap", 15.00, true)

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Carol",
		"email":    "carol@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var registered struct {
		Data identityapp.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	authHeaders := map[string]string{"Authorization": "Bearer " + registered.Data.Token}

	w = env.request(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"productId": product.ID,
		"quantity":  1,
	}, authHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/checkout", map[string]interface{}{
		"shippingAddress": map[string]string{
			"address":    "1 Main St",
			"city":       "Springfield",
			"postalCode": "12345",
			"country":    "USA",
		},
		"paymentMethod": "paypal",
	}, authHeaders)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data checkoutapp.CheckoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	checkoutID := created.Data.ID

	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/v1/checkout/%s/pay", checkoutID), map[string]interface{}{
		"paymentStatus":  "paid",
		"paymentDetails": map[string]string{"transactionId": "txn-1"},
	}, authHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/checkout/%s/finalize", checkoutID), nil, authHeaders)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/orders/my-orders", nil, authHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cap")
}
