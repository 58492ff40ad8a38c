package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakmart/storefront-backend/api/controllers"
	"github.com/oakmart/storefront-backend/api/middleware"
	authsvc "github.com/oakmart/storefront-backend/internal/auth"
	cartsvc "github.com/oakmart/storefront-backend/internal/cart"
	catalogsvc "github.com/oakmart/storefront-backend/internal/catalog"
	"github.com/oakmart/storefront-backend/pkg/auth/session"
	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/db"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"github.com/oakmart/storefront-backend/pkg/metrics"
	"github.com/oakmart/storefront-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       db.Pinger
	RedisPinger    redis.Pinger
	SessionChecker session.AccessSessionChecker
	AuthService    authsvc.Service
	CatalogService catalogsvc.Service
	CartManager    *cartsvc.Manager
	HTTPMetrics    *metrics.HTTPMetrics
	Registry       *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if p.HTTPMetrics != nil {
		r.Use(middleware.Metrics(p.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", controllers.AuthSignUp(p.AuthService, logg))
		r.Post("/signin", controllers.AuthSignIn(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, cfg.JWT, logg))
		r.With(middleware.Auth(cfg.JWT, p.SessionChecker, logg)).
			Post("/signout", controllers.AuthSignOut(p.AuthService, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/", controllers.CatalogList(p.CatalogService, logg))
		r.Get("/{productId}", controllers.CatalogDetail(p.CatalogService, logg))
		r.Post("/refresh", controllers.CatalogRefresh(p.CatalogService, logg))
	})

	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
		r.Get("/me", controllers.ProfileMe(p.AuthService, logg))
		r.Put("/me/seller-status", controllers.ProfileUpdateSellerStatus(p.AuthService, logg))
	})

	r.Route("/api/v1/seller", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
		r.Use(middleware.RequireSeller(logg))
		r.Get("/products", controllers.SellerListProducts(p.CatalogService, logg))
		r.Post("/products", controllers.SellerCreateProduct(p.CatalogService, logg))
		r.Patch("/products/{productId}", controllers.SellerUpdateProduct(p.CatalogService, logg))
		r.Delete("/products/{productId}", controllers.SellerDeleteProduct(p.CatalogService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
		r.Get("/", controllers.CartFetch(p.CartManager, logg))
		r.Delete("/", controllers.CartClear(p.CartManager, logg))
		r.Post("/items", controllers.CartAdd(p.CartManager, logg))
		r.Patch("/items/{itemId}", controllers.CartUpdateItem(p.CartManager, logg))
		r.Post("/items/{itemId}/increment", controllers.CartIncrementItem(p.CartManager, logg))
		r.Post("/items/{itemId}/decrement", controllers.CartDecrementItem(p.CartManager, logg))
		r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.CartManager, logg))
	})

	return r
}
