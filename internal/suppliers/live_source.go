package suppliers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"arcana_backend/internal/catalog/transport"
	"arcana_backend/platform/logger"
)

// freightLookupConcurrency caps in-flight freight quotes. The client's own
// rate limiter is the real throttle; this just bounds goroutines.
const freightLookupConcurrency = 4

// FreightLookup resolves live shipping quotes for a supplier.
type FreightLookup interface {
	FreightCost(ctx context.Context, sku, countryCode string) (FreightQuote, error)
}

// LiveSource enriches the static directory with live freight quotes from the
// supplier API before handing the snapshot to the catalog builder. A lookup
// failure keeps the directory's configured shipping cost for that supplier.
type LiveSource struct {
	directory   *Directory
	freight     FreightLookup
	countryCode string
	log         *logger.Logger
}

// NewLiveSource wraps a directory with live freight enrichment.
func NewLiveSource(directory *Directory, freight FreightLookup, countryCode string, log *logger.Logger) *LiveSource {
	if countryCode == "" {
		countryCode = "PT"
	}
	return &LiveSource{
		directory:   directory,
		freight:     freight,
		countryCode: countryCode,
		log:         log,
	}
}

// Suppliers returns the directory snapshot with refreshed shipping costs and
// delivery ranges.
func (s *LiveSource) Suppliers(ctx context.Context) ([]transport.Supplier, error) {
	records, err := s.directory.Suppliers(ctx)
	if err != nil {
		return nil, err
	}
	if s.freight == nil {
		return records, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(freightLookupConcurrency)

	for i := range records {
		group.Go(func() error {
			quote, err := s.freight.FreightCost(groupCtx, records[i].ID, s.countryCode)
			if err != nil {
				if s.log != nil {
					s.log.Warn("freight lookup failed, keeping configured shipping",
						"supplier", records[i].ID, "error", err)
				}
				return nil
			}

			records[i].ShippingCost = quote.Amount
			if quote.MinDays > 0 && quote.MaxDays >= quote.MinDays {
				records[i].DeliveryDays = transport.DeliveryDays{Min: quote.MinDays, Max: quote.MaxDays}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
