package service

import (
	"testing"

	"arcana_backend/internal/catalog/transport"
)

func viewItem(id string, category transport.Category, salePrice float64, marginPct, maxDays int, promo string) transport.CatalogItem {
	var promoPtr *string
	if promo != "" {
		promoPtr = &promo
	}
	return transport.CatalogItem{
		ID:        id,
		Category:  category,
		SalePrice: salePrice,
		MarginPct: marginPct,
		Supplier: transport.SupplierSummary{
			DeliveryDays: transport.DeliveryDays{Max: maxDays},
			Promo:        promoPtr,
		},
	}
}

func TestBestDeals_RanksByScoreDescending(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("a", transport.CategoryTarot, 20, 40, 10, ""),  // 40*0.7 + 20*0.3 = 34
		viewItem("b", transport.CategoryTarot, 20, 60, 25, ""),  // 60*0.7 + 5*0.3  = 43.5
		viewItem("c", transport.CategoryTarot, 20, 30, 40, ""),  // 30*0.7 - 10*0.3 = 18
	}

	deals := BestDeals(catalog, 10)

	want := []string{"b", "a", "c"}
	for i, id := range want {
		if deals[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, deals[i].ID)
		}
	}
}

func TestBestDeals_TiesBreakByID(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("zeta", transport.CategoryTarot, 20, 50, 10, ""),
		viewItem("alpha", transport.CategoryTarot, 20, 50, 10, ""),
	}

	deals := BestDeals(catalog, 10)

	if deals[0].ID != "alpha" || deals[1].ID != "zeta" {
		t.Fatalf("expected tie broken by id, got %s, %s", deals[0].ID, deals[1].ID)
	}
}

func TestBestDeals_TruncatesToTopN(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("a", transport.CategoryTarot, 20, 10, 10, ""),
		viewItem("b", transport.CategoryTarot, 20, 20, 10, ""),
		viewItem("c", transport.CategoryTarot, 20, 30, 10, ""),
	}

	deals := BestDeals(catalog, 2)

	if len(deals) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(deals))
	}
	if deals[0].ID != "c" || deals[1].ID != "b" {
		t.Fatalf("expected top scorers c, b; got %s, %s", deals[0].ID, deals[1].ID)
	}
}

func TestBestDeals_DoesNotMutateInput(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("a", transport.CategoryTarot, 20, 10, 10, ""),
		viewItem("b", transport.CategoryTarot, 20, 90, 10, ""),
	}

	BestDeals(catalog, 10)

	if catalog[0].ID != "a" || catalog[1].ID != "b" {
		t.Fatalf("input slice reordered: %s, %s", catalog[0].ID, catalog[1].ID)
	}
}

func TestBestDeals_EmptyCatalog(t *testing.T) {
	if deals := BestDeals(nil, 0); len(deals) != 0 {
		t.Fatalf("expected no deals, got %d", len(deals))
	}
}

func TestCheapestByCategory(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("c1", transport.CategoryCrystals, 24.99, 0, 0, ""),
		viewItem("c2", transport.CategoryCrystals, 12.99, 0, 0, ""),
		viewItem("t1", transport.CategoryTarot, 18.99, 0, 0, ""),
	}

	cheapest := CheapestByCategory(catalog)

	if len(cheapest) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cheapest))
	}
	if cheapest[transport.CategoryCrystals].ID != "c2" {
		t.Fatalf("expected c2 cheapest for crystals, got %s", cheapest[transport.CategoryCrystals].ID)
	}
	if cheapest[transport.CategoryTarot].ID != "t1" {
		t.Fatalf("expected t1 cheapest for tarot, got %s", cheapest[transport.CategoryTarot].ID)
	}
}

func TestCheapestByCategory_FirstSeenWinsTies(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("first", transport.CategoryCandles, 9.99, 0, 0, ""),
		viewItem("second", transport.CategoryCandles, 9.99, 0, 0, ""),
	}

	cheapest := CheapestByCategory(catalog)

	if cheapest[transport.CategoryCandles].ID != "first" {
		t.Fatalf("expected first-seen item to win the tie, got %s", cheapest[transport.CategoryCandles].ID)
	}
}

func TestFastestDelivery(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("slow", transport.CategoryTarot, 10.99, 0, 20, ""),
		viewItem("fast-pricey", transport.CategoryTarot, 30.99, 0, 5, ""),
		viewItem("fast-cheap", transport.CategoryTarot, 14.99, 0, 7, ""),
	}

	fast := FastestDelivery(catalog, 7)

	if len(fast) != 2 {
		t.Fatalf("expected 2 items within 7 days, got %d", len(fast))
	}
	if fast[0].ID != "fast-cheap" || fast[1].ID != "fast-pricey" {
		t.Fatalf("expected price-ascending order, got %s, %s", fast[0].ID, fast[1].ID)
	}
}

func TestFastestDelivery_DefaultWindow(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("in", transport.CategoryTarot, 10.99, 0, 7, ""),
		viewItem("out", transport.CategoryTarot, 10.99, 0, 8, ""),
	}

	fast := FastestDelivery(catalog, 0)

	if len(fast) != 1 || fast[0].ID != "in" {
		t.Fatalf("expected only the 7-day item with the default window, got %+v", fast)
	}
}

func TestActivePromos(t *testing.T) {
	empty := ""
	withEmptyPromo := viewItem("blank", transport.CategoryTarot, 10.99, 0, 5, "")
	withEmptyPromo.Supplier.Promo = &empty

	catalog := []transport.CatalogItem{
		viewItem("none", transport.CategoryTarot, 10.99, 0, 5, ""),
		viewItem("promo", transport.CategoryTarot, 10.99, 0, 5, "full moon deal"),
		withEmptyPromo,
	}

	promos := ActivePromos(catalog)

	if len(promos) != 1 || promos[0].ID != "promo" {
		t.Fatalf("expected only the item with a non-empty promo, got %+v", promos)
	}
}

func TestSummarizeCategories(t *testing.T) {
	catalog := []transport.CatalogItem{
		viewItem("c1", transport.CategoryCrystals, 12.99, 40, 0, ""),
		viewItem("c2", transport.CategoryCrystals, 24.99, 60, 0, ""),
		viewItem("t1", transport.CategoryTarot, 18.99, 50, 0, ""),
	}

	summaries := SummarizeCategories(catalog)

	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	// sorted by category name: cristais before tarot
	crystals := summaries[0]
	if crystals.Category != transport.CategoryCrystals || crystals.Items != 2 {
		t.Fatalf("unexpected first summary: %+v", crystals)
	}
	if crystals.MinSalePrice != 12.99 || crystals.MaxSalePrice != 24.99 {
		t.Fatalf("unexpected price range: %+v", crystals)
	}
	if crystals.AvgMarginPct != 50 {
		t.Fatalf("expected avg margin 50, got %v", crystals.AvgMarginPct)
	}
}
