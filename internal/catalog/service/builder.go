package service

import (
	"math"
	"regexp"
	"strings"

	"arcana_backend/internal/catalog/transport"
)

// Pricing engine defaults. Overridable per build via BuildOptions.
const (
	DefaultMarkupMultiplier    = 2.8
	DefaultMinMarginEur        = 5.00
	DefaultCustomerShippingEur = 4.50

	// Sale prices may sit at most 5% above the simulated market price,
	// and never undercut it by more than 10%.
	marketCeilingFactor = 1.05
	marketFloorFactor   = 0.90

	defaultCategoryMultiplier = 3.0
)

var slugStripRegex = regexp.MustCompile(`[^a-z0-9-]`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// BuildOptions carries the tunable constants for one catalog build.
type BuildOptions struct {
	MarkupMultiplier    float64
	MinMarginEur        float64
	CustomerShippingEur float64
}

// DefaultBuildOptions returns the engine defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MarkupMultiplier:    DefaultMarkupMultiplier,
		MinMarginEur:        DefaultMinMarginEur,
		CustomerShippingEur: DefaultCustomerShippingEur,
	}
}

// categoryMultiplier returns the simulated market multiplier for a category.
// Categories outside the known set fall back to the default multiplier.
func categoryMultiplier(category transport.Category) float64 {
	switch category {
	case transport.CategoryCrystals:
		return 3.5
	case transport.CategoryTarot:
		return 3.0
	case transport.CategoryIncense:
		return 4.0
	case transport.CategoryCandles:
		return 3.5
	case transport.CategoryBooks:
		return 2.5
	case transport.CategoryJewelry:
		return 4.5
	default:
		return defaultCategoryMultiplier
	}
}

// slugify lower-cases a product name, collapses whitespace runs into single
// hyphens and strips everything outside [a-z0-9-].
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = whitespaceRegex.ReplaceAllString(slug, "-")
	return slugStripRegex.ReplaceAllString(slug, "")
}

// itemID derives the deterministic catalog item identifier.
// Distinct products can collide after slugging; the builder does not
// deduplicate them.
func itemID(supplierID, productName string) string {
	return supplierID + "-" + slugify(productName)
}

// round2 rounds a currency amount to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// psychologicalPrice floors the amount to an integer and appends .99.
func psychologicalPrice(v float64) float64 {
	return math.Floor(v) + 0.99
}

// landedCost returns the per-unit cost including the supplier's per-order
// shipping amortized over the minimum order quantity. max(moq,1) guards the
// division and never lowers the cost for a zero or negative MOQ.
func landedCost(unitCost, shippingCost float64, moq int) float64 {
	divisor := moq
	if divisor < 1 {
		divisor = 1
	}
	return round2(unitCost + shippingCost/float64(divisor))
}

// marketPrice simulates the competitor price for a category from the landed
// cost, in psychological .99 format.
func marketPrice(totalCost float64, category transport.Category) float64 {
	return psychologicalPrice(totalCost * categoryMultiplier(category))
}

// boundedRawPrice clamps the margin-driven raw price into the market band.
// Prices above market ceiling are pulled down; prices undercutting the
// opportunity floor are raised to capture the extra margin. The two clamps
// are mutually exclusive for any positive market price.
func boundedRawPrice(rawPrice, market float64) float64 {
	maxAllowed := market * marketCeilingFactor
	opportunityFloor := market * marketFloorFactor

	if rawPrice > maxAllowed {
		return maxAllowed
	}
	if rawPrice < opportunityFloor {
		return opportunityFloor
	}
	return rawPrice
}

// BuildCatalog transforms supplier records into the priced catalog.
//
// Out-of-stock products are skipped. Items whose margin falls below the
// configured floor are dropped, never adjusted. Input order of
// (supplier, product) pairs is preserved; the input is never mutated.
func BuildCatalog(suppliers []transport.Supplier, opts BuildOptions) []transport.CatalogItem {
	if opts.MarkupMultiplier <= 0 {
		opts.MarkupMultiplier = DefaultMarkupMultiplier
	}

	items := make([]transport.CatalogItem, 0)
	for _, supplier := range suppliers {
		summary := supplierSummary(supplier)

		for _, product := range supplier.Products {
			if !product.InStock {
				continue
			}

			totalCost := landedCost(product.UnitCost, supplier.ShippingCost, product.MOQ)
			market := marketPrice(totalCost, supplier.Category)
			rawPrice := totalCost * opts.MarkupMultiplier
			salePrice := psychologicalPrice(boundedRawPrice(rawPrice, market))

			// Floor check uses the unrounded margin; only the stored
			// field is rounded to cents.
			margin := salePrice - totalCost - opts.CustomerShippingEur
			if margin < opts.MinMarginEur {
				continue
			}

			items = append(items, transport.CatalogItem{
				ID:            itemID(supplier.ID, product.Name),
				Name:          product.Name,
				Category:      supplier.Category,
				SalePrice:     salePrice,
				MarketPrice:   market,
				SupplierPrice: product.UnitCost,
				TotalCost:     totalCost,
				MarginEur:     round2(margin),
				MarginPct:     int(math.Round(margin / salePrice * 100)),
				MOQ:           product.MOQ,
				Supplier:      summary,
			})
		}
	}

	return items
}

func supplierSummary(supplier transport.Supplier) transport.SupplierSummary {
	var promo *string
	if supplier.Promo != "" {
		value := supplier.Promo
		promo = &value
	}

	return transport.SupplierSummary{
		ID:           supplier.ID,
		Name:         supplier.Name,
		Platform:     supplier.Platform,
		URL:          supplier.URL,
		DeliveryDays: supplier.DeliveryDays,
		Rating:       supplier.Rating,
		Promo:        promo,
	}
}
