package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minutemart/storefront/internal/api/handler"
	"github.com/minutemart/storefront/internal/api/middleware"
	"github.com/minutemart/storefront/internal/core/ports"
	"github.com/minutemart/storefront/internal/core/service"
	"github.com/minutemart/storefront/internal/infrastructure/config"
	storemongo "github.com/minutemart/storefront/internal/infrastructure/db/mongo"
	storeredis "github.com/minutemart/storefront/internal/infrastructure/db/redis"
)

// Deps carries the externally constructed collaborators the router wires
// together. Stores are opened (and closed) by the caller; nothing in here
// reaches for ambient globals.
type Deps struct {
	Config   *config.Config
	Mongo    *mongo.Database
	Redis    *redis.Client
	Files    ports.FileStore
	Orphans  ports.OrphanSink
	Notifier ports.ResetNotifier
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Dependencies ---
	userRepo := storemongo.NewUserRepository(d.Mongo)
	productRepo := storemongo.NewProductRepository(d.Mongo)
	orderRepo := storemongo.NewOrderRepository(d.Mongo)
	sessionStore := storeredis.NewSessionStore(d.Redis, d.Config.SessionTTL)

	sessions := service.NewSessionManager(sessionStore, userRepo, d.Log)
	authService := service.NewAuthService(userRepo, sessions, d.Notifier, d.Config.BaseURL, d.Config.ResetTokenTTL, d.Log)
	productService := service.NewProductService(productRepo, d.Files, d.Orphans, d.Log)
	shopService := service.NewShopService(productRepo, orderRepo, sessions, d.Log)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	shopHandler := handler.NewShopHandler(productService, shopService)
	requireUser := middleware.RequireUser(sessions)

	// --- Global middleware ---
	// Order matters: every state-changing request resolves its session
	// first, then passes the CSRF guard, then reaches a flow handler.
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("storefront"))
	e.Use(middleware.ResolveSession(sessions, d.Config.SecureCookies))
	e.Use(middleware.CSRF())

	// --- Auth routes ---
	e.GET("/auth/session", authHandler.Session)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireUser)
	e.POST("/auth/reset", authHandler.RequestReset)
	e.POST("/auth/reset/:token", authHandler.CompleteReset)

	// --- Public catalogue + stored images ---
	e.GET("/products", shopHandler.Browse)
	e.GET("/products/:id", shopHandler.Get)
	e.Static("/images", d.Config.UploadDir)

	// --- Seller routes ---
	admin := e.Group("/admin", requireUser)
	admin.GET("/products", productHandler.List)
	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.DELETE("/products/:id", productHandler.Delete)

	// --- Shopper routes ---
	shop := e.Group("", requireUser)
	shop.GET("/cart", shopHandler.ViewCart)
	shop.POST("/cart", shopHandler.AddToCart)
	shop.DELETE("/cart/:productId", shopHandler.RemoveFromCart)
	shop.POST("/orders", shopHandler.PlaceOrder)
	shop.GET("/orders", shopHandler.ListOrders)

	// --- Probes and metrics (no session semantics) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
