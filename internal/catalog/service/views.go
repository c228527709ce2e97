package service

import (
	"sort"

	"arcana_backend/internal/catalog/transport"
)

// Derived-view defaults.
const (
	DefaultBestDealsTop        = 10
	DefaultFastestDeliveryDays = 7

	dealScoreMarginWeight   = 0.7
	dealScoreDeliveryWeight = 0.3
	dealScoreDeliveryPivot  = 30
)

// dealScore weighs margin percentage against delivery speed. Suppliers
// slower than the pivot contribute negatively; no clamping is applied.
func dealScore(item transport.CatalogItem) float64 {
	return float64(item.MarginPct)*dealScoreMarginWeight +
		float64(dealScoreDeliveryPivot-item.Supplier.DeliveryDays.Max)*dealScoreDeliveryWeight
}

// BestDeals ranks the catalog by composite deal score, descending, and
// returns the first topN items. Equal scores are ordered by item id so the
// ranking is deterministic. The input is never mutated.
func BestDeals(catalog []transport.CatalogItem, topN int) []transport.CatalogItem {
	if topN <= 0 {
		topN = DefaultBestDealsTop
	}

	ranked := append([]transport.CatalogItem(nil), catalog...)
	sort.Slice(ranked, func(i, j int) bool {
		scoreI, scoreJ := dealScore(ranked[i]), dealScore(ranked[j])
		if scoreI != scoreJ {
			return scoreI > scoreJ
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// CheapestByCategory maps every category present in the catalog to its
// lowest-priced item. The first-seen item wins ties since later items only
// replace on a strictly lower price.
func CheapestByCategory(catalog []transport.CatalogItem) map[transport.Category]transport.CatalogItem {
	cheapest := make(map[transport.Category]transport.CatalogItem)
	for _, item := range catalog {
		current, ok := cheapest[item.Category]
		if !ok || item.SalePrice < current.SalePrice {
			cheapest[item.Category] = item
		}
	}
	return cheapest
}

// FastestDelivery filters to items deliverable within maxDays, sorted by
// ascending sale price. The input is never mutated.
func FastestDelivery(catalog []transport.CatalogItem, maxDays int) []transport.CatalogItem {
	if maxDays <= 0 {
		maxDays = DefaultFastestDeliveryDays
	}

	fast := make([]transport.CatalogItem, 0)
	for _, item := range catalog {
		if item.Supplier.DeliveryDays.Max <= maxDays {
			fast = append(fast, item)
		}
	}

	sort.SliceStable(fast, func(i, j int) bool {
		return fast[i].SalePrice < fast[j].SalePrice
	})
	return fast
}

// ActivePromos filters to items whose supplier currently advertises a promo.
func ActivePromos(catalog []transport.CatalogItem) []transport.CatalogItem {
	promos := make([]transport.CatalogItem, 0)
	for _, item := range catalog {
		if item.Supplier.Promo != nil && *item.Supplier.Promo != "" {
			promos = append(promos, item)
		}
	}
	return promos
}

// SummarizeCategories aggregates item counts, price range and average margin
// per category, ordered by category name.
func SummarizeCategories(catalog []transport.CatalogItem) []transport.CategorySummary {
	type bucket struct {
		items     int
		minPrice  float64
		maxPrice  float64
		marginSum int
	}

	buckets := make(map[transport.Category]*bucket)
	for _, item := range catalog {
		b, ok := buckets[item.Category]
		if !ok {
			b = &bucket{minPrice: item.SalePrice, maxPrice: item.SalePrice}
			buckets[item.Category] = b
		}
		b.items++
		b.marginSum += item.MarginPct
		if item.SalePrice < b.minPrice {
			b.minPrice = item.SalePrice
		}
		if item.SalePrice > b.maxPrice {
			b.maxPrice = item.SalePrice
		}
	}

	summaries := make([]transport.CategorySummary, 0, len(buckets))
	for category, b := range buckets {
		summaries = append(summaries, transport.CategorySummary{
			Category:     category,
			Items:        b.items,
			MinSalePrice: b.minPrice,
			MaxSalePrice: b.maxPrice,
			AvgMarginPct: float64(b.marginSum) / float64(b.items),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Category < summaries[j].Category
	})
	return summaries
}
