package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/fakturo/internal"
	"github.com/dukerupert/fakturo/internal/auth"
	"github.com/dukerupert/fakturo/internal/cache"
	"github.com/dukerupert/fakturo/internal/document"
	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/email"
	"github.com/dukerupert/fakturo/internal/handler/api"
	"github.com/dukerupert/fakturo/internal/middleware"
	"github.com/dukerupert/fakturo/internal/postgres"
	"github.com/dukerupert/fakturo/internal/router"
	"github.com/dukerupert/fakturo/internal/routes"
	"github.com/dukerupert/fakturo/internal/service"
	"github.com/dukerupert/fakturo/internal/storage"
	"github.com/dukerupert/fakturo/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Migrations run on database/sql through the pgx driver
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	db := postgres.New(pool)
	stores := service.Stores{
		Businesses: postgres.NewBusinessStore(db),
		Clients:    postgres.NewClientStore(db),
		Items:      postgres.NewItemStore(db),
		Invoices:   postgres.NewInvoiceStore(db),
		Deliveries: postgres.NewDeliveryStore(db),
	}

	healthChecks := map[string]api.Check{"postgres": db.Ping}

	// Rendered PDFs are cached in Redis when REDIS_URL is set
	var docCache domain.DocumentCache
	if cfg.Redis.URL != "" {
		redisClient, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		docCache = cache.NewDocumentCache(redisClient, cfg.Redis.CacheTTL)
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		logger.Info("Document cache enabled", "ttl", cfg.Redis.CacheTTL)
	} else {
		logger.Warn("REDIS_URL not set, rendering documents without a cache")
	}

	fileStorage, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "provider", cfg.Storage.Provider)

	smtpSender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)
	mailer, err := email.NewService(smtpSender, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Prometheus
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics("fakturo", registry)
	businessMetrics := telemetry.NewBusinessMetrics("fakturo", registry)

	// Services
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(stores.Businesses, auth.NewPasswords(auth.DefaultCost), tokens, businessMetrics, logger)
	businessService := service.NewBusinessService(stores.Businesses, fileStorage, logger)
	clientService := service.NewClientService(stores.Clients)
	itemService := service.NewItemService(stores.Items, fileStorage, logger)
	invoiceService := service.NewInvoiceService(db, stores, businessMetrics, logger)
	deliveryService := service.NewDeliveryService(db, stores, businessMetrics, logger)
	analyticsService := service.NewAnalyticsService(stores, logger)
	documentService := service.NewDocumentService(service.DocumentConfig{
		Renderer:      document.NewDispatcher(cfg.PublicBaseURL, logger),
		Cache:         docCache,
		Storage:       fileStorage,
		Mailer:        mailer,
		Metrics:       businessMetrics,
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        logger,
	}, stores)

	// Middleware
	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	authRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer authRateLimiter.Stop()

	r := router.New(
		router.Recovery(logger),
		telemetry.SentryMiddleware(),
		middleware.RequestID,
		router.CORS(router.CORSConfig{AllowedOrigins: cfg.CORSOrigins, MaxAge: time.Hour}),
		httpMetrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig()),
		middleware.MaxBodySize(middleware.UploadMaxBodySize),
		router.AccessLog(logger),
		middleware.Authenticate(tokens),
		middleware.WithClientIP(),
		defaultRateLimiter.Middleware,
		middleware.WithRequestLogger(logger),
	)

	timeout := router.Middleware(middleware.Timeout(middleware.DefaultTimeout))
	documentTimeout := router.Middleware(middleware.Timeout(middleware.DocumentTimeout))

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Auth:            api.NewAuthHandler(authService),
		Business:        api.NewBusinessHandler(businessService),
		Clients:         api.NewClientHandler(clientService),
		Items:           api.NewItemHandler(itemService),
		Invoices:        api.NewInvoiceHandler(invoiceService, documentService),
		Analytics:       api.NewAnalyticsHandler(analyticsService),
		Deliveries:      api.NewDeliveryHandler(deliveryService),
		RequireAuth:     middleware.RequireAuth,
		RequireOwner:    middleware.RequireOwner,
		AuthRateLimit:   authRateLimiter.Middleware,
		Timeout:         timeout,
		DocumentTimeout: documentTimeout,
	})
	routes.RegisterPublicRoutes(r, routes.PublicDeps{
		Public:          api.NewPublicHandler(documentService, deliveryService),
		Timeout:         timeout,
		DocumentTimeout: documentTimeout,
	})
	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		Health:  api.NewHealthHandler(healthChecks),
		Metrics: httpMetrics.Handler(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
