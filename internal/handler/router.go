package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/carsharing/carsharing/internal/middleware"
)

// RouterConfig bundles the handlers and middleware settings the router needs.
type RouterConfig struct {
	Root    *Handler
	Health  *HealthHandler
	Metrics *MetricsHandler
	Cars    *CarHandler
	Trips   *TripHandler

	Logger   *slog.Logger
	Security middleware.SecurityConfig
	CORS     middleware.CORSConfig
	// RateLimit is applied to /api when non-nil.
	RateLimit *middleware.RateLimitConfig
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Security.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))
	}

	// Operational endpoints
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", cfg.Metrics.Metrics)
	r.Get("/", cfg.Root.Hello)

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit != nil {
			r.Use(middleware.RateLimitIP(*cfg.RateLimit))
		}

		r.Route("/cars", func(r chi.Router) {
			r.Get("/", cfg.Cars.List)
			r.Post("/", cfg.Cars.Create)
			r.Get("/{id}", cfg.Cars.Get)
			r.Put("/{id}", cfg.Cars.Replace)
			r.Delete("/{id}", cfg.Cars.Delete)
			r.Post("/{car_id}/trips", cfg.Trips.Add)
		})
	})

	// 404 and 405 handlers
	r.NotFound(cfg.Root.NotFound)
	r.MethodNotAllowed(cfg.Root.MethodNotAllowed)

	return r
}
