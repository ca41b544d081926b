package routes

import (
	"slices"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/config"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/handler"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/middleware"
	"github.com/attarhouse/attarhouse-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Order    *handler.OrderHandler
	Pricing  *handler.PricingHandler
	Settings *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		if deps.Cfg.Auth.Enabled {
			protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		}
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerOrderRoutes(protected, h, deps)
		registerPricingRoutes(protected, h)
		registerSettingsRoutes(protected, h, deps)
	}

	return router
}

// NewRateLimiter builds the per-client limiter from configuration
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.ClientRateLimiter {
	return middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.Requests) / float64(cfg.Duration),
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// writers returns the role check for order writes, or nothing when auth is off
func writers(deps *Deps) []gin.HandlerFunc {
	if !deps.Cfg.Auth.Enabled {
		return nil
	}
	return []gin.HandlerFunc{middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff)}
}

// admins restricts settings changes to administrators when auth is on
func admins(deps *Deps) []gin.HandlerFunc {
	if !deps.Cfg.Auth.Enabled {
		return nil
	}
	return []gin.HandlerFunc{middleware.RequireRole(middleware.RoleAdmin)}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	{
		idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Idempotency.TTL,
		})
		write := append(writers(deps), idempotency)

		orders.POST("", chain(write, h.Order.Create)...)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id", chain(write, h.Order.Update)...)
	}
}

// chain appends the handler without sharing the middleware slice's backing array
func chain(middlewares []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(slices.Clip(middlewares), h)
}

func registerPricingRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/pricing/quote", h.Pricing.Quote)
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/settings/store", h.Settings.GetStoreSettings)
	protected.PUT("/settings/store", chain(admins(deps), h.Settings.UpdateStoreSettings)...)
}
