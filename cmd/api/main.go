package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopstack-labs/shopstack-backend/api/routes"
	"github.com/shopstack-labs/shopstack-backend/internal/auth"
	"github.com/shopstack-labs/shopstack-backend/internal/categories"
	"github.com/shopstack-labs/shopstack-backend/internal/products"
	"github.com/shopstack-labs/shopstack-backend/internal/sales"
	"github.com/shopstack-labs/shopstack-backend/internal/stats"
	"github.com/shopstack-labs/shopstack-backend/internal/units"
	"github.com/shopstack-labs/shopstack-backend/internal/users"
	"github.com/shopstack-labs/shopstack-backend/pkg/auth/session"
	"github.com/shopstack-labs/shopstack-backend/pkg/config"
	"github.com/shopstack-labs/shopstack-backend/pkg/db"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
	"github.com/shopstack-labs/shopstack-backend/pkg/mailer"
	"github.com/shopstack-labs/shopstack-backend/pkg/metrics"
	"github.com/shopstack-labs/shopstack-backend/pkg/migrate"
	"github.com/shopstack-labs/shopstack-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var accountMailer mailer.Mailer
	if cfg.Sendgrid.APIKey != "" {
		accountMailer = mailer.NewSendGrid(cfg.Sendgrid.APIKey, cfg.Sendgrid.DefaultFrom, "ShopStack")
	} else {
		logg.Warn(context.Background(), "no sendgrid key configured, mail goes to the log")
		accountMailer = mailer.LogMailer{Log: logg}
	}

	userRepo := users.NewRepository(dbClient.DB())
	categoryRepo := categories.NewRepository(dbClient.DB())
	unitRepo := units.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	saleRepo := sales.NewRepository(dbClient.DB())
	statsRepo := stats.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:           userRepo,
		SessionManager:     sessionManager,
		ResetTokenStore:    redisClient,
		Mailer:             accountMailer,
		JWTConfig:          cfg.JWT,
		PasswordConfig:     cfg.Password,
		VerificationConfig: cfg.Verification,
		ClientURL:          cfg.App.ClientURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	categoriesService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}
	unitsService, err := units.NewService(unitRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create units service", err)
		os.Exit(1)
	}
	productsService, err := products.NewService(productRepo, unitRepo, categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	salesService, err := sales.NewService(saleRepo, dbClient, productRepo, unitRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}
	statsService, err := stats.NewService(statsRepo, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:            cfg,
		Logger:            logg,
		DB:                dbClient,
		Redis:             redisClient,
		SessionChecker:    sessionManager,
		HTTPMetrics:       httpMetrics,
		Registry:          registry,
		AuthService:       authService,
		UsersService:      usersService,
		CategoriesService: categoriesService,
		UnitsService:      unitsService,
		ProductsService:   productsService,
		SalesService:      salesService,
		StatsService:      statsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "shutdown did not complete cleanly", err)
		}
	}
}
