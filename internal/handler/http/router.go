package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/health"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/middleware"
)

// AdminRole is the token role allowed to force a catalog refresh.
const AdminRole = "admin"

// RouterConfig holds the cross-cutting settings of the HTTP API.
type RouterConfig struct {
	ServiceName      string
	CORS             middleware.CORSConfig
	TokenValidator   middleware.TokenValidator
	RequestTimeout   time.Duration
	CacheMaxAge      int
	CacheSWR         int
	RefreshPerMinute float64
	RefreshBurst     int
	TrustedProxies   []string
	PprofCIDRs       []string
}

// Services groups what the handlers need.
type Services struct {
	Catalog *service.CatalogService
	Pages   *service.PageService
	Media   *service.MediaService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig, svcs Services, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.ServerTiming)
	r.Use(chimw.Compress(5))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	productHandler := NewProductHandler(svcs.Catalog, logger)
	pageHandler := NewPageHandler(svcs.Pages, svcs.Media, logger)
	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))

		// Public read endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CacheMaxAge, cfg.CacheSWR))
			r.Use(middleware.ETag)

			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/featured", productHandler.ListFeatured)
			r.Get("/products/{slug}", productHandler.GetProduct)
			r.Get("/categories", productHandler.ListCategories)

			r.Get("/pages/home", pageHandler.GetHome)
			r.Get("/pages/about", pageHandler.GetAbout)
			r.Get("/pages/contact", pageHandler.GetContact)

			r.Get("/media", pageHandler.ListMedia)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Get("/status", catalogHandler.GetStatus)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.RefreshPerMinute, cfg.RefreshBurst, cfg.TrustedProxies, logger))
				r.Use(middleware.Auth(cfg.TokenValidator, logger))
				r.Use(middleware.RequireRole(AdminRole))

				r.Post("/refresh", catalogHandler.Refresh)
			})
		})
	})

	return r
}
