package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Karaba21/Innowave/internal/service"
	"github.com/Karaba21/Innowave/pkg/health"
	"github.com/Karaba21/Innowave/pkg/middleware"
)

// RouterConfig bundles the dependencies for the HTTP router.
type RouterConfig struct {
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	CatalogService  *service.CatalogService
	HealthHandler   *health.Handler
	Logger          *slog.Logger
	CORS            middleware.CORSConfig
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.CheckoutService, cfg.Logger)
	catalogHandler := NewCatalogHandler(cfg.CatalogService, cfg.Logger)

	// Catalog read endpoints: public, no session required.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Get("/featured", catalogHandler.ListFeatured)
		r.Get("/search", catalogHandler.SearchProducts)
		r.Get("/facets", catalogHandler.Facets)
		r.Get("/{handle}", catalogHandler.GetProduct)
	})
	r.Route("/api/v1/collections", func(r chi.Router) {
		r.Get("/", catalogHandler.ListCollections)
		r.Get("/{handle}/products", catalogHandler.ListCollectionProducts)
	})

	// Cart endpoints: keyed by the session header.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items", cartHandler.UpdateItemQuantity)
		r.Delete("/items", cartHandler.RemoveItem)

		r.Post("/checkout", checkoutHandler.CheckoutCart)
	})

	// Checkout endpoints consumed directly by the storefront UI.
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Post("/", checkoutHandler.Checkout)
	})
	r.With(ContentTypeJSON).Post("/api/v1/variant", checkoutHandler.ResolveVariant)

	return r
}
