// Package router wires HTTP middleware and handlers into a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers groups the handlers served by the router
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Product    *handler.ProductHandler
	Cart       *handler.CartHandler
	Checkout   *handler.CheckoutHandler
	Order      *handler.OrderHandler
	User       *handler.UserHandler
	Subscriber *handler.SubscriberHandler
	Upload     *handler.UploadHandler
}

// Config holds router dependencies
type Config struct {
	Logger     *zap.Logger
	HTTP       config.HTTPConfig
	JWTService *auth.JWTService
	Handlers   Handlers
}

// New builds the gin engine with all middleware and routes registered
func New(cfg Config) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(
			middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}

	registerRoutes(engine, cfg)
	return engine
}

func corsConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(httpCfg.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = httpCfg.CORSAllowOrigins
	}
	if len(httpCfg.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	return corsCfg
}

func registerRoutes(engine *gin.Engine, cfg Config) {
	h := cfg.Handlers

	requireAuth := middleware.JWTAuth(cfg.JWTService)
	optionalAuth := middleware.OptionalJWTAuth(cfg.JWTService)
	requireAdmin := middleware.RequireAdmin()

	api := engine.Group("/api/v1")

	api.GET("/health", h.System.Health)

	// Login and registration get a tighter rate limit than the rest of
	// the API to slow down credential stuffing.
	authGroup := api.Group("/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authGroup.POST("/register", middleware.RateLimit(authLimiter), h.Auth.Register)
		authGroup.POST("/login", middleware.RateLimit(authLimiter), h.Auth.Login)
	} else {
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}
	authGroup.GET("/profile", requireAuth, h.Auth.Profile)

	products := api.Group("/products")
	products.GET("", h.Product.List)
	products.GET("/best-seller", h.Product.BestSeller)
	products.GET("/new-arrivals", h.Product.NewArrivals)
	products.GET("/similar/:id", h.Product.Similar)
	products.GET("/:id", h.Product.Get)

	cart := api.Group("/cart", optionalAuth)
	cart.GET("", h.Cart.Get)
	cart.POST("", h.Cart.AddItem)
	cart.PUT("", h.Cart.UpdateItem)
	cart.DELETE("", h.Cart.RemoveItem)
	cart.POST("/merge", requireAuth, h.Cart.Merge)

	checkout := api.Group("/checkout", requireAuth)
	checkout.POST("", h.Checkout.Create)
	checkout.PUT("/:id/pay", h.Checkout.Pay)
	checkout.POST("/:id/finalize", h.Checkout.Finalize)

	orders := api.Group("/orders", requireAuth)
	orders.GET("/my-orders", h.Order.ListMine)
	orders.GET("/:id", h.Order.Get)

	api.POST("/subscribe", h.Subscriber.Subscribe)

	admin := api.Group("/admin", requireAuth, requireAdmin)
	admin.GET("/products", h.Product.AdminList)
	admin.POST("/products", h.Product.Create)
	admin.GET("/products/:id", h.Product.AdminGet)
	admin.PUT("/products/:id", h.Product.Update)
	admin.DELETE("/products/:id", h.Product.Delete)

	admin.GET("/orders", h.Order.AdminList)
	admin.PUT("/orders/:id", h.Order.UpdateStatus)

	admin.GET("/users", h.User.List)
	admin.POST("/users", h.User.Create)
	admin.PUT("/users/:id", h.User.UpdateRole)
	admin.DELETE("/users/:id", h.User.Delete)

	admin.GET("/subscribers", h.Subscriber.AdminList)
	admin.POST("/upload", h.Upload.UploadImage)
}
