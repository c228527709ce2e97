// Package catalog provides the catalog bounded context module.
package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"arcana_backend/internal/catalog/handler"
	"arcana_backend/internal/catalog/repository"
	"arcana_backend/internal/catalog/service"
	"arcana_backend/internal/events"
	apphttp "arcana_backend/internal/http"
	"arcana_backend/platform/config"
	"arcana_backend/platform/logger"
	"arcana_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	store   *repository.FileStore
	cache   *repository.ViewCache
}

// ModuleConfig combines the config interfaces the catalog module needs.
type ModuleConfig interface {
	config.PricingConfig
	config.StoreConfig
	config.CacheConfig
}

// NewModule creates and initializes the catalog module.
// The Redis client and refresh trigger may be nil; the view cache then
// degrades to a no-op and manual refreshes run inline.
func NewModule(source service.SupplierSource, redisClient *redis.Client, trigger handler.RefreshTrigger, bus events.Bus, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) *Module {
	store := repository.NewFileStore(cfg.GetCatalogFilePath())

	ttl := cfg.GetViewCacheTTL()
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cache := repository.NewViewCache(redisClient, ttl)

	svc := service.New(source, store, bus, cfg, log)
	h := handler.New(svc, val, cache, trigger)

	return &Module{
		handler: h,
		service: svc,
		store:   store,
		cache:   cache,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use (scheduler worker).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/catalog")
	group.GET("", m.handler.GetCatalog)
	group.GET("/best-deals", m.handler.GetBestDeals)
	group.GET("/cheapest-by-category", m.handler.GetCheapestByCategory)
	group.GET("/fastest-delivery", m.handler.GetFastestDelivery)
	group.GET("/active-promos", m.handler.GetActivePromos)
	group.GET("/report", m.handler.GetReport)
	group.GET("/categories/:category", m.handler.GetCategoryDetail)

	group.POST("/refresh", ctx.RefreshRateLimiter.RateLimit(), m.handler.Refresh)
}

// RegisterHandlers subscribes to domain events so cached views are dropped
// whenever a rebuild lands.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CatalogRebuilt{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch event.(type) {
	case events.CatalogRebuilt:
		m.cache.Invalidate(ctx)
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
