package service

import (
	"context"
	"sync"
	"time"

	"arcana_backend/internal/catalog/transport"
	"arcana_backend/internal/events"
	"arcana_backend/platform/apperr"
	"arcana_backend/platform/config"
	"arcana_backend/platform/logger"
)

// SupplierSource provides the supplier snapshot consumed by a rebuild.
type SupplierSource interface {
	Suppliers(ctx context.Context) ([]transport.Supplier, error)
}

// SnapshotStore persists built catalog snapshots. LastModified exposes the
// store's write stamp so readers can detect snapshots written by another
// process sharing the same store.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot transport.Snapshot) error
	Load(ctx context.Context) (transport.Snapshot, error)
	LastModified(ctx context.Context) (time.Time, error)
}

// Service provides business logic for the catalog: rebuilding the priced
// catalog from supplier data and answering derived-view queries over the
// last-built snapshot.
type Service struct {
	source SupplierSource
	store  SnapshotStore
	bus    events.Bus
	log    *logger.Logger
	opts   BuildOptions
	now    func() time.Time

	// mu serializes rebuilds so a manual trigger overlapping a scheduled
	// one cannot interleave snapshot writes.
	mu sync.Mutex

	// snapStamp is the store write stamp the memoized snapshot was read
	// under. A differing stamp means another process rebuilt the catalog
	// and the memo must be reloaded.
	snapMu    sync.RWMutex
	snapshot  *transport.Snapshot
	snapStamp time.Time
}

// New creates a new catalog service.
func New(source SupplierSource, store SnapshotStore, bus events.Bus, cfg config.PricingConfig, log *logger.Logger) *Service {
	opts := DefaultBuildOptions()
	if cfg != nil {
		opts = BuildOptions{
			MarkupMultiplier:    cfg.GetMarkupMultiplier(),
			MinMarginEur:        cfg.GetMinMarginEur(),
			CustomerShippingEur: cfg.GetCustomerShippingEur(),
		}
	}

	return &Service{
		source: source,
		store:  store,
		bus:    bus,
		log:    log,
		opts:   opts,
		now:    time.Now,
	}
}

// Rebuild fetches a fresh supplier snapshot, prices it, persists the result
// and publishes CatalogRebuilt. The returned snapshot is the newly built one.
func (s *Service) Rebuild(ctx context.Context, trigger string) (transport.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()

	suppliers, err := s.source.Suppliers(ctx)
	if err != nil {
		return transport.Snapshot{}, apperr.Wrap(apperr.KindUnavailable, "failed to fetch supplier data", err)
	}

	items := BuildCatalog(suppliers, s.opts)
	snapshot := transport.Snapshot{
		LastUpdate: s.now().UTC(),
		Markup:     s.opts.MarkupMultiplier,
		Products:   items,
	}

	if err := s.store.Save(ctx, snapshot); err != nil {
		if s.log != nil {
			s.log.StorageError("save snapshot", err)
		}
		return transport.Snapshot{}, err
	}

	stamp, _ := s.store.LastModified(ctx)
	s.snapMu.Lock()
	s.snapshot = &snapshot
	s.snapStamp = stamp
	s.snapMu.Unlock()

	if s.log != nil {
		s.log.CatalogRebuild(trigger, len(suppliers), len(items), float64(s.now().Sub(start).Milliseconds()))
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.CatalogRebuilt{
			BaseEvent: events.NewBaseEvent(),
			Trigger:   trigger,
			Suppliers: len(suppliers),
			Items:     len(items),
			BuiltAt:   snapshot.LastUpdate,
		})
	}

	return snapshot, nil
}

// current returns the last-built snapshot. The memo is revalidated against
// the store's write stamp on every read, so snapshots persisted by a worker
// process become visible here without a local rebuild. When the stamp cannot
// be read, the memoized snapshot keeps serving.
func (s *Service) current(ctx context.Context) (transport.Snapshot, error) {
	stamp, stampErr := s.store.LastModified(ctx)

	s.snapMu.RLock()
	snapshot := s.snapshot
	known := s.snapStamp
	s.snapMu.RUnlock()

	if snapshot != nil && (stampErr != nil || stamp.Equal(known)) {
		return *snapshot, nil
	}

	loaded, err := s.store.Load(ctx)
	if err != nil {
		if snapshot != nil {
			return *snapshot, nil
		}
		return transport.Snapshot{}, err
	}

	s.snapMu.Lock()
	s.snapshot = &loaded
	s.snapStamp = stamp
	s.snapMu.Unlock()

	return loaded, nil
}

// Catalog returns the full priced catalog.
func (s *Service) Catalog(ctx context.Context) (transport.CatalogResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return transport.CatalogResponse{}, err
	}

	return transport.CatalogResponse{
		LastUpdate: snapshot.LastUpdate,
		Markup:     snapshot.Markup,
		Total:      len(snapshot.Products),
		Products:   snapshot.Products,
	}, nil
}

// BestDeals returns the top-ranked deals over the current catalog.
func (s *Service) BestDeals(ctx context.Context, topN int) (transport.ItemListResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return transport.ItemListResponse{}, err
	}

	deals := BestDeals(snapshot.Products, topN)
	return transport.ItemListResponse{Items: deals, Total: len(deals)}, nil
}

// CheapestByCategory returns the lowest-priced item per category.
func (s *Service) CheapestByCategory(ctx context.Context) (transport.CheapestByCategoryResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return transport.CheapestByCategoryResponse{}, err
	}

	return transport.CheapestByCategoryResponse{
		Categories: CheapestByCategory(snapshot.Products),
	}, nil
}

// FastestDelivery returns items deliverable within maxDays, cheapest first.
func (s *Service) FastestDelivery(ctx context.Context, maxDays int) (transport.ItemListResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return transport.ItemListResponse{}, err
	}

	fast := FastestDelivery(snapshot.Products, maxDays)
	return transport.ItemListResponse{Items: fast, Total: len(fast)}, nil
}

// ActivePromos returns items whose supplier advertises a promotion.
func (s *Service) ActivePromos(ctx context.Context) (transport.ItemListResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return transport.ItemListResponse{}, err
	}

	promos := ActivePromos(snapshot.Products)
	return transport.ItemListResponse{Items: promos, Total: len(promos)}, nil
}

// Report returns the aggregate report over the current catalog.
func (s *Service) Report(ctx context.Context) (transport.ReportResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return transport.ReportResponse{}, err
	}

	return transport.ReportResponse{
		LastUpdate:         snapshot.LastUpdate,
		TotalItems:         len(snapshot.Products),
		Categories:         SummarizeCategories(snapshot.Products),
		BestDeals:          BestDeals(snapshot.Products, DefaultBestDealsTop),
		CheapestByCategory: CheapestByCategory(snapshot.Products),
		FastestDelivery:    FastestDelivery(snapshot.Products, DefaultFastestDeliveryDays),
		ActivePromos:       ActivePromos(snapshot.Products),
	}, nil
}

// CategoryDetail returns the summary and items of a single category.
func (s *Service) CategoryDetail(ctx context.Context, category transport.Category) (transport.CategoryDetailResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return transport.CategoryDetailResponse{}, err
	}

	items := make([]transport.CatalogItem, 0)
	for _, item := range snapshot.Products {
		if item.Category == category {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return transport.CategoryDetailResponse{}, apperr.NotFound("no items in category")
	}

	for _, summary := range SummarizeCategories(items) {
		if summary.Category == category {
			return transport.CategoryDetailResponse{Summary: summary, Items: items}, nil
		}
	}

	return transport.CategoryDetailResponse{}, apperr.Internal("category summary missing")
}
