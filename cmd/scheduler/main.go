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
	catalogservice "arcana_backend/internal/catalog/service"
	"arcana_backend/internal/events"
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
	log.Info("starting scheduler", "env", cfg.Env, "interval", cfg.GetRefreshInterval().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

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

	// Worker-side catalog wiring. The shared Redis client lets the rebuild
	// handler invalidate the API process's cached views.
	catalogModule := catalog.NewModule(source, redisClient, nil, eventBus, val, cfg, log)
	catalogModule.RegisterHandlers(eventBus)

	worker, err := scheduler.NewWorker(cfg, catalogModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	var schedClient *scheduler.Client
	if err := withRetry(ctx, log, "scheduler client", 5, 2*time.Second, func() error {
		c, err := scheduler.NewClient(cfg)
		if err != nil {
			return err
		}
		schedClient = c
		return nil
	}); err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = schedClient.Close() }()

	refresher := scheduler.NewPeriodicRefresher(schedClient, cfg.GetRefreshInterval(), log)
	go refresher.Run(ctx)

	worker.Run(ctx)
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
