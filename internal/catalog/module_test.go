package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"arcana_backend/internal/catalog/transport"
	"arcana_backend/internal/events"
)

type moduleConfig struct {
	catalogPath string
}

func (c moduleConfig) GetMarkupMultiplier() float64    { return 2.8 }
func (c moduleConfig) GetMinMarginEur() float64        { return 5.00 }
func (c moduleConfig) GetCustomerShippingEur() float64 { return 4.50 }
func (c moduleConfig) GetCatalogFilePath() string      { return c.catalogPath }
func (c moduleConfig) GetRedisURL() string             { return "" }
func (c moduleConfig) GetViewCacheTTL() time.Duration  { return 5 * time.Minute }

type emptySource struct{}

func (emptySource) Suppliers(ctx context.Context) ([]transport.Supplier, error) {
	return nil, nil
}

func TestModule_RebuildEventInvalidatesViewsAcrossProcesses(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := moduleConfig{catalogPath: t.TempDir() + "/catalog.json"}

	newClient := func() *redis.Client {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	apiModule := NewModule(emptySource{}, newClient(), nil, nil, nil, cfg, nil)
	workerModule := NewModule(emptySource{}, newClient(), nil, nil, nil, cfg, nil)

	ctx := context.Background()
	apiModule.cache.Set(ctx, "report", []byte("stale"))
	if _, ok := apiModule.cache.Get(ctx, "report"); !ok {
		t.Fatalf("expected a cached view before the rebuild event")
	}

	if err := workerModule.Handle(ctx, events.CatalogRebuilt{BaseEvent: events.NewBaseEvent()}); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if _, ok := apiModule.cache.Get(ctx, "report"); ok {
		t.Fatalf("expected the worker's rebuild event to drop the api's cached view")
	}
}
