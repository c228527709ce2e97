package service

import (
	"math"
	"reflect"
	"testing"

	"arcana_backend/internal/catalog/transport"
)

func crystalSupplier(products ...transport.SupplierProduct) transport.Supplier {
	return transport.Supplier{
		ID:           "sup1",
		Name:         "Sup One",
		Platform:     "cj",
		URL:          "https://sup1.example.com",
		Category:     transport.CategoryCrystals,
		ShippingCost: 6,
		DeliveryDays: transport.DeliveryDays{Min: 5, Max: 12},
		Rating:       4.5,
		Products:     products,
	}
}

func TestBuildCatalog_WorkedExample(t *testing.T) {
	suppliers := []transport.Supplier{
		crystalSupplier(transport.SupplierProduct{Name: "Crystal Pendant", UnitCost: 2.00, MOQ: 1, InStock: true}),
	}

	items := BuildCatalog(suppliers, DefaultBuildOptions())

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.ID != "sup1-crystal-pendant" {
		t.Fatalf("expected id sup1-crystal-pendant, got %q", item.ID)
	}
	if item.TotalCost != 8.00 {
		t.Fatalf("expected total cost 8.00, got %v", item.TotalCost)
	}
	if item.MarketPrice != 28.99 {
		t.Fatalf("expected market price 28.99, got %v", item.MarketPrice)
	}
	// raw 22.4 undercuts the 26.09 opportunity floor and is pulled up
	if item.SalePrice != 26.99 {
		t.Fatalf("expected sale price 26.99, got %v", item.SalePrice)
	}
	if item.MarginEur != 14.49 {
		t.Fatalf("expected margin 14.49, got %v", item.MarginEur)
	}
	if item.MarginPct != 54 {
		t.Fatalf("expected margin pct 54, got %d", item.MarginPct)
	}
	if item.SupplierPrice != 2.00 {
		t.Fatalf("expected supplier price 2.00, got %v", item.SupplierPrice)
	}
	if item.Supplier.ID != "sup1" || item.Supplier.Promo != nil {
		t.Fatalf("unexpected supplier summary: %+v", item.Supplier)
	}
}

func TestBuildCatalog_SkipsOutOfStock(t *testing.T) {
	suppliers := []transport.Supplier{
		crystalSupplier(
			transport.SupplierProduct{Name: "In Stock", UnitCost: 2, MOQ: 1, InStock: true},
			transport.SupplierProduct{Name: "Sold Out", UnitCost: 1, MOQ: 1, InStock: false},
		),
	}

	items := BuildCatalog(suppliers, DefaultBuildOptions())

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Name != "In Stock" {
		t.Fatalf("expected the in-stock product, got %q", items[0].Name)
	}
}

func TestBuildCatalog_DropsBelowMarginFloor(t *testing.T) {
	supplier := transport.Supplier{
		ID:       "cheap",
		Name:     "Cheap Books",
		Category: transport.CategoryBooks,
		Products: []transport.SupplierProduct{
			{Name: "Thin Pamphlet", UnitCost: 1.00, MOQ: 1, InStock: true},
		},
	}

	items := BuildCatalog([]transport.Supplier{supplier}, DefaultBuildOptions())

	// sale 2.99 minus cost 1.00 minus shipping 4.50 is far below the floor
	if len(items) != 0 {
		t.Fatalf("expected item dropped by margin floor, got %d items", len(items))
	}
}

func TestBuildCatalog_MarginFloorInvariant(t *testing.T) {
	suppliers := seedVariety()
	opts := DefaultBuildOptions()

	for _, item := range BuildCatalog(suppliers, opts) {
		margin := item.SalePrice - item.TotalCost - opts.CustomerShippingEur
		if margin < opts.MinMarginEur-1e-9 {
			t.Fatalf("item %s violates margin floor: %v", item.ID, margin)
		}
	}
}

func TestBuildCatalog_PricesEndIn99(t *testing.T) {
	for _, item := range BuildCatalog(seedVariety(), DefaultBuildOptions()) {
		if cents := math.Round(item.SalePrice*100) - math.Floor(item.SalePrice)*100; cents != 99 {
			t.Fatalf("sale price %v of %s does not end in .99", item.SalePrice, item.ID)
		}
		if cents := math.Round(item.MarketPrice*100) - math.Floor(item.MarketPrice)*100; cents != 99 {
			t.Fatalf("market price %v of %s does not end in .99", item.MarketPrice, item.ID)
		}
	}
}

func TestBuildCatalog_ClampsUpToOpportunityFloor(t *testing.T) {
	// market 19.99: raw 9.75 undercuts the floor by more than 10%,
	// so it is raised to floor(19.99*0.90)+0.99 = 17.99.
	supplier := transport.Supplier{
		ID:           "tarot1",
		Name:         "Tarot One",
		Category:     transport.CategoryTarot,
		ShippingCost: 1,
		Products: []transport.SupplierProduct{
			{Name: "Budget Deck", UnitCost: 5.50, MOQ: 1, InStock: true},
		},
	}

	items := BuildCatalog([]transport.Supplier{supplier}, BuildOptions{
		MarkupMultiplier:    1.5,
		MinMarginEur:        5.00,
		CustomerShippingEur: 4.50,
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].MarketPrice != 19.99 {
		t.Fatalf("expected market price 19.99, got %v", items[0].MarketPrice)
	}
	if items[0].SalePrice != 17.99 {
		t.Fatalf("expected sale price clamped up to 17.99, got %v", items[0].SalePrice)
	}
}

func TestBuildCatalog_ClampsDownToMarketCeiling(t *testing.T) {
	// market 25.99, raw 28 exceeds 25.99*1.05 = 27.2895 and is pulled down.
	supplier := transport.Supplier{
		ID:       "books1",
		Name:     "Books One",
		Category: transport.CategoryBooks,
		Products: []transport.SupplierProduct{
			{Name: "Rare Folio", UnitCost: 10, MOQ: 1, InStock: true},
		},
	}

	items := BuildCatalog([]transport.Supplier{supplier}, DefaultBuildOptions())

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].SalePrice != 27.99 {
		t.Fatalf("expected sale price clamped down to 27.99, got %v", items[0].SalePrice)
	}

	maxAllowed := math.Floor(items[0].MarketPrice*1.05) + 0.99
	if items[0].SalePrice > maxAllowed+1e-9 {
		t.Fatalf("sale price %v exceeds market ceiling %v", items[0].SalePrice, maxAllowed)
	}
}

func TestBuildCatalog_MOQGuardsDivision(t *testing.T) {
	suppliers := []transport.Supplier{
		crystalSupplier(transport.SupplierProduct{Name: "Zero MOQ", UnitCost: 2, MOQ: 0, InStock: true}),
	}

	items := BuildCatalog(suppliers, DefaultBuildOptions())

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	// shipping amortized over max(0,1)=1, never below unit cost
	if items[0].TotalCost != 8.00 {
		t.Fatalf("expected total cost 8.00 with zero MOQ, got %v", items[0].TotalCost)
	}
}

func TestBuildCatalog_UnknownCategoryUsesDefaultMultiplier(t *testing.T) {
	supplier := transport.Supplier{
		ID:       "oddity",
		Name:     "Oddities",
		Category: transport.Category("curiosidades"),
		Products: []transport.SupplierProduct{
			{Name: "Mystery Box", UnitCost: 10, MOQ: 1, InStock: true},
		},
	}

	items := BuildCatalog([]transport.Supplier{supplier}, DefaultBuildOptions())

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	// default multiplier 3.0: floor(10*3.0)+0.99
	if items[0].MarketPrice != 30.99 {
		t.Fatalf("expected market price 30.99, got %v", items[0].MarketPrice)
	}
}

func TestBuildCatalog_Deterministic(t *testing.T) {
	suppliers := seedVariety()

	first := BuildCatalog(suppliers, DefaultBuildOptions())
	second := BuildCatalog(suppliers, DefaultBuildOptions())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical catalogs for identical input")
	}
}

func TestBuildCatalog_EmptyInput(t *testing.T) {
	items := BuildCatalog(nil, DefaultBuildOptions())
	if len(items) != 0 {
		t.Fatalf("expected empty catalog, got %d items", len(items))
	}
}

func TestBuildCatalog_PreservesInputOrder(t *testing.T) {
	suppliers := []transport.Supplier{
		crystalSupplier(
			transport.SupplierProduct{Name: "Alpha Stone", UnitCost: 3, MOQ: 1, InStock: true},
			transport.SupplierProduct{Name: "Beta Stone", UnitCost: 4, MOQ: 1, InStock: true},
		),
	}

	items := BuildCatalog(suppliers, DefaultBuildOptions())

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Alpha Stone" || items[1].Name != "Beta Stone" {
		t.Fatalf("input order not preserved: %q, %q", items[0].Name, items[1].Name)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Crystal Pendant", "crystal-pendant"},
		{"  Rosé   Quartz!  ", "ros-quartz"},
		{"7 Chakra Set", "7-chakra-set"},
		{"UPPER lower", "upper-lower"},
	}

	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Fatalf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// seedVariety spans every category plus an unknown one, in and out of stock.
func seedVariety() []transport.Supplier {
	promo := "solstice sale"
	return []transport.Supplier{
		{
			ID: "s1", Name: "S One", Category: transport.CategoryCrystals, ShippingCost: 6,
			DeliveryDays: transport.DeliveryDays{Min: 5, Max: 12}, Rating: 4.7, Promo: promo,
			Products: []transport.SupplierProduct{
				{Name: "Amethyst Cluster", UnitCost: 3.40, MOQ: 2, InStock: true},
				{Name: "Opal Shard", UnitCost: 2.20, MOQ: 1, InStock: false},
			},
		},
		{
			ID: "s2", Name: "S Two", Category: transport.CategoryIncense, ShippingCost: 3.2,
			DeliveryDays: transport.DeliveryDays{Min: 10, Max: 25}, Rating: 4.1,
			Products: []transport.SupplierProduct{
				{Name: "Sandalwood Sticks", UnitCost: 1.60, MOQ: 5, InStock: true},
				{Name: "Palo Santo", UnitCost: 2.80, MOQ: 2, InStock: true},
			},
		},
		{
			ID: "s3", Name: "S Three", Category: transport.CategoryJewelry, ShippingCost: 4,
			DeliveryDays: transport.DeliveryDays{Min: 6, Max: 14}, Rating: 4.6,
			Products: []transport.SupplierProduct{
				{Name: "Moon Ring", UnitCost: 2.90, MOQ: 2, InStock: true},
			},
		},
		{
			ID: "s4", Name: "S Four", Category: transport.Category("misc"), ShippingCost: 5,
			DeliveryDays: transport.DeliveryDays{Min: 20, Max: 40}, Rating: 3.9,
			Products: []transport.SupplierProduct{
				{Name: "Mystery Bundle", UnitCost: 8, MOQ: 1, InStock: true},
			},
		},
	}
}
