package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopstack-labs/shopstack-backend/api/controllers"
	"github.com/shopstack-labs/shopstack-backend/api/middleware"
	"github.com/shopstack-labs/shopstack-backend/internal/auth"
	"github.com/shopstack-labs/shopstack-backend/internal/categories"
	"github.com/shopstack-labs/shopstack-backend/internal/products"
	"github.com/shopstack-labs/shopstack-backend/internal/sales"
	"github.com/shopstack-labs/shopstack-backend/internal/stats"
	"github.com/shopstack-labs/shopstack-backend/internal/units"
	"github.com/shopstack-labs/shopstack-backend/internal/users"
	"github.com/shopstack-labs/shopstack-backend/pkg/auth/session"
	"github.com/shopstack-labs/shopstack-backend/pkg/config"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
	"github.com/shopstack-labs/shopstack-backend/pkg/metrics"
	"github.com/shopstack-labs/shopstack-backend/pkg/redis"
)

type pinger interface {
	Ping(context.Context) error
}

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	Registry       *prometheus.Registry

	AuthService       auth.Service
	UsersService      users.Service
	CategoriesService categories.Service
	UnitsService      units.Service
	ProductsService   products.Service
	SalesService      sales.Service
	StatsService      stats.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	loginLimiter := middleware.AuthRateLimit(loginPolicy, nil, logg)
	registerLimiter := middleware.AuthRateLimit(registerPolicy, nil, logg)
	var cache pinger
	if deps.Redis != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
		registerLimiter = middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)
		cache = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, cache, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(registerLimiter).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/verify-email", controllers.AuthVerifyEmail(deps.AuthService, logg))
		r.Post("/resend-code", controllers.AuthResendCode(deps.AuthService, logg))
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, cfg.JWT, logg))
		r.Post("/forgot-password", controllers.AuthForgotPassword(deps.AuthService, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/users/me", controllers.UsersMe(deps.UsersService, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoriesCreate(deps.CategoriesService, logg))
			r.Get("/", controllers.CategoriesList(deps.CategoriesService, logg))
			r.Get("/{categoryId}", controllers.CategoriesGet(deps.CategoriesService, logg))
			r.Put("/{categoryId}", controllers.CategoriesUpdate(deps.CategoriesService, logg))
			r.Delete("/{categoryId}", controllers.CategoriesDelete(deps.CategoriesService, logg))
		})

		r.Route("/units", func(r chi.Router) {
			r.Post("/", controllers.UnitsCreate(deps.UnitsService, logg))
			r.Get("/", controllers.UnitsList(deps.UnitsService, logg))
			r.Get("/{unitId}", controllers.UnitsGet(deps.UnitsService, logg))
			r.Put("/{unitId}", controllers.UnitsUpdate(deps.UnitsService, logg))
			r.Delete("/{unitId}", controllers.UnitsDelete(deps.UnitsService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductsCreate(deps.ProductsService, logg))
			r.Get("/", controllers.ProductsList(deps.ProductsService, logg))
			r.Get("/{productId}", controllers.ProductsGet(deps.ProductsService, logg))
			r.Put("/{productId}", controllers.ProductsUpdate(deps.ProductsService, logg))
			r.Delete("/{productId}", controllers.ProductsDelete(deps.ProductsService, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/", controllers.SalesCreate(deps.SalesService, logg))
			r.Get("/", controllers.SalesList(deps.SalesService, logg))
			r.Get("/{saleId}", controllers.SalesGet(deps.SalesService, logg))
			r.Put("/{saleId}", controllers.SalesUpdate(deps.SalesService, logg))
			r.Delete("/{saleId}", controllers.SalesDelete(deps.SalesService, logg))
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/all", controllers.StatsAll(deps.StatsService, logg))
			r.Get("/pie-chart", controllers.StatsPieChart(deps.StatsService, logg))
			r.Get("/line-chart", controllers.StatsLineChart(deps.StatsService, logg))
		})
	})

	return r
}
