package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/enterprise_booking/internal/adapter/cache"
	"github.com/srgjo27/enterprise_booking/internal/adapter/handler"
	"github.com/srgjo27/enterprise_booking/internal/adapter/messaging"
	"github.com/srgjo27/enterprise_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/enterprise_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/enterprise_booking/internal/core/ports"
	"github.com/srgjo27/enterprise_booking/internal/core/services"
	"github.com/srgjo27/enterprise_booking/internal/platform/clock"
	"github.com/srgjo27/enterprise_booking/internal/platform/config"
	"github.com/srgjo27/enterprise_booking/internal/platform/database"
	"github.com/srgjo27/enterprise_booking/internal/platform/logging"
	"github.com/srgjo27/enterprise_booking/internal/platform/metrics"
	"github.com/srgjo27/enterprise_booking/internal/platform/tracing"
)

const serviceName = "enterprise-booking"

var version = "dev"

type repositories struct {
	bookings      ports.BookingRepository
	codes         ports.PickupCodeRepository
	notifications ports.NotificationRepository
	references    ports.ReferenceRepository
	close         func() error
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: serviceName,
		Version:     version,
		Environment: cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	}, logger)
	if err != nil {
		return err
	}

	defer func() { _ = shutdownTracing(context.Background()) }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	c := clock.Real()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}

	defer repos.close()

	var invalidator handler.CacheInvalidator
	if cfg.RedisAddr != "" {
		logger.Info("connecting to redis", "addr", cfg.RedisAddr)

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}

		defer redisClient.Close()

		cached := cache.NewReferenceRepository(repos.references, redisClient, cfg.ReferenceCacheTTL, logger)
		repos.references = cached
		invalidator = cached
		logger.Info("reference cache enabled", "ttl", cfg.ReferenceCacheTTL)
	}

	var notifier ports.StatusNotifier = messaging.NewLogNotifier(logger)
	if cfg.RabbitURL != "" {
		pub, err := messaging.NewPublisher(cfg.RabbitURL, cfg.NoticesExchange, logger)
		if err != nil {
			return err
		}

		defer pub.Close()

		notifier = messaging.NewNoticePublisher(pub)
	}

	issuer := services.NewCodeIssuer(repos.codes, cfg.PickupCodeTTL, m, logger)
	resolver := services.NewRecipientResolver(repos.references, logger)
	dedup := services.NewDeduplicator(repos.notifications, c, m)
	reactor := services.NewReactor(repos.bookings, repos.codes, issuer, resolver, dedup, notifier, c, m, logger)

	bookingService := services.NewBookingService(repos.bookings, repos.codes, repos.references, reactor, c, cfg.ReactorTimeout, logger)
	notificationService := services.NewNotificationService(repos.notifications, c)
	reconciler := services.NewReconciler(repos.bookings, reactor, c, cfg.ReconcileInterval, cfg.ReconcileLookback, m, logger)

	go reconciler.RunBackgroundReconcile(ctx)

	if cfg.RabbitURL != "" {
		consumer := messaging.NewTransitionConsumer(messaging.ConsumerConfig{
			URL:            cfg.RabbitURL,
			Exchange:       cfg.EventsExchange,
			Queue:          cfg.EventsQueue,
			ReactorTimeout: cfg.ReactorTimeout,
		}, reactor, m, logger)

		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("transition consumer stopped", "err", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	handler.RegisterRoutes(e,
		handler.NewBookingHandler(bookingService, logger),
		handler.NewNotificationHandler(notificationService, logger),
		handler.NewAdminHandler(invalidator, logger),
		reg,
		cfg.JWTSecret,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      e,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exiting")
	return nil
}

func openRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.Storage == "memory" {
		references, err := memory.LoadReferenceFixture(cfg.ReferenceFixture)
		if err != nil {
			return nil, err
		}

		logger.Warn("using in-memory storage; data is lost on restart", "reference_fixture", cfg.ReferenceFixture)

		return &repositories{
			bookings:      memory.NewBookingRepository(),
			codes:         memory.NewPickupCodeRepository(),
			notifications: memory.NewNotificationRepository(),
			references:    references,
			close:         func() error { return nil },
		}, nil
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return postgresRepositories(db), nil
}

func postgresRepositories(db *sql.DB) *repositories {
	return &repositories{
		bookings:      postgres.NewBookingRepository(db),
		codes:         postgres.NewPickupCodeRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		references:    postgres.NewReferenceRepository(db),
		close:         db.Close,
	}
}
