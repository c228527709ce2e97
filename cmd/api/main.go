package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"arcana_backend/internal/catalog"
	"arcana_backend/internal/catalog/handler"
	catalogservice "arcana_backend/internal/catalog/service"
	"arcana_backend/internal/events"
	apphttp "arcana_backend/internal/http"
	"arcana_backend/internal/http/router"
	"arcana_backend/internal/scheduler"
	"arcana_backend/internal/suppliers"
	"arcana_backend/platform/config"
	"arcana_backend/platform/logger"
	"arcana_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("invalid redis url", "error", err)
			panic("invalid redis url: " + err.Error())
		}
		redisClient = redis.NewClient(opt)
		if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
			return redisClient.Ping(ctx).Err()
		}); err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("redis connection established")
	}

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	directory, err := suppliers.NewDirectory(cfg.GetSuppliersFilePath(), val)
	if err != nil {
		log.Error("failed to load supplier directory", "error", err)
		panic("failed to load supplier directory: " + err.Error())
	}

	var source catalogservice.SupplierSource = directory
	if cfg.IsSupplierAPIEnabled() {
		apiClient := suppliers.NewClient(cfg, log)
		source = suppliers.NewLiveSource(directory, apiClient, "", log)
		log.Info("supplier API client enabled", "baseUrl", cfg.GetSupplierAPIBaseURL())
	}

	var trigger handler.RefreshTrigger
	if cfg.RedisURL != "" {
		schedClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer func() { _ = schedClient.Close() }()
		trigger = schedClient
	}

	catalogModule := catalog.NewModule(source, redisClient, trigger, eventBus, val, cfg, log)
	catalogModule.RegisterHandlers(eventBus)

	// Single-binary mode: without Redis the API process owns the 12h
	// refresh loop itself.
	if cfg.RedisURL == "" {
		refresher := scheduler.NewPeriodicRefresher(
			scheduler.NewInlineRefresher(catalogModule.Service()),
			cfg.GetRefreshInterval(),
			log,
		)
		go refresher.Run(ctx)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	var health apphttp.HealthChecker
	if redisClient != nil {
		health = redisHealth{client: redisClient}
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

type redisHealth struct {
	client *redis.Client
}

func (h redisHealth) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
