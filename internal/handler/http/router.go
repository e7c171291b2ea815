package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	"github.com/rasulshaikhdev/techgear-hub/internal/service"
	"github.com/rasulshaikhdev/techgear-hub/pkg/health"
	"github.com/rasulshaikhdev/techgear-hub/pkg/middleware"
)

// catalogMaxAge is how long clients may cache catalog responses, in seconds.
const catalogMaxAge = 60

// RouterConfig holds the transport knobs of the router.
type RouterConfig struct {
	CORSOrigins    []string
	PprofEnabled   bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
// ctx bounds the rate limiter's background cleanup.
func NewRouter(
	ctx context.Context,
	cat *catalog.Catalog,
	sessions *service.Sessions,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Tracing)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins...)))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if cfg.PprofEnabled {
		middleware.RegisterPprof(r, middleware.LoopbackCIDRs, logger)
	}

	catalogHandler := NewCatalogHandler(cat, logger)
	cartHandler := NewCartHandler(logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		r.Use(ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(catalogMaxAge))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{ref}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.ListCategories)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(SessionFromHeader(sessions))

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Get("/wishlist", cartHandler.GetWishlist)
			r.Post("/wishlist/items/{productId}/toggle", cartHandler.ToggleWishlist)
			r.Delete("/wishlist/items/{productId}", cartHandler.RemoveFromWishlist)
			r.Post("/wishlist/items/{productId}/move-to-cart", cartHandler.MoveToCart)

			r.Post("/checkout", cartHandler.Checkout)

			r.Get("/notifications/current", cartHandler.CurrentNotification)

			r.Get("/preferences", cartHandler.GetPreferences)
			r.Post("/preferences/dark-mode/toggle", cartHandler.ToggleDarkMode)
		})
	})

	return r
}
