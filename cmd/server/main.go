package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	identityapp "github.com/storefront/backend/internal/application/identity"
	newsletterapp "github.com/storefront/backend/internal/application/newsletter"
	orderapp "github.com/storefront/backend/internal/application/order"
	uploadapp "github.com/storefront/backend/internal/application/upload"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	checkoutRepo := persistence.NewGormCheckoutRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	subscriberRepo := persistence.NewGormSubscriberRepository(db.DB)

	// Idempotency store for checkout finalization (Redis with in-memory fallback)
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Object storage for product images
	objectStorage := newObjectStorage(cfg, log)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	userService := identityapp.NewUserService(userRepo)
	productService := catalogapp.NewProductService(productRepo)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	checkoutService := checkoutapp.NewCheckoutService(
		checkoutRepo, cartRepo, productRepo, orderRepo,
		idempotencyStore,
		shared.IdempotencyConfig{
			Enabled: cfg.Idempotency.Enabled,
			TTL:     cfg.Idempotency.TTL,
		},
	)
	orderService := orderapp.NewOrderService(orderRepo)
	subscriberService := newsletterapp.NewSubscriberService(subscriberRepo)
	uploadService := uploadapp.NewUploadService(objectStorage)

	// Build router
	engine := router.New(router.Config{
		Logger:     log,
		HTTP:       cfg.HTTP,
		JWTService: jwtService,
		Handlers: router.Handlers{
			System:     handler.NewSystemHandler(db),
			Auth:       handler.NewAuthHandler(authService),
			Product:    handler.NewProductHandler(productService),
			Cart:       handler.NewCartHandler(cartService),
			Checkout:   handler.NewCheckoutHandler(checkoutService),
			Order:      handler.NewOrderHandler(orderService),
			User:       handler.NewUserHandler(userService),
			Subscriber: handler.NewSubscriberHandler(subscriberService),
			Upload:     handler.NewUploadHandler(uploadService),
		},
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies configuration", zap.Error(err))
		}
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage creates the S3 client when credentials are configured.
// Without credentials uploads go to an in-memory stub, which is only
// useful for local development.
func newObjectStorage(cfg *config.Config, log *zap.Logger) uploadapp.ObjectStorageService {
	if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" {
		log.Warn("Object storage credentials not configured, uploads will not be persisted")
		return storage.NewStubObjectStorage()
	}

	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}

	log.Info("Object storage ready",
		zap.String("bucket", s3Storage.GetBucket()),
	)
	return s3Storage
}
