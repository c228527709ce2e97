// Package suppliers provides the supplier directory consumed by catalog
// rebuilds, plus the client for the third-party dropshipping API.
package suppliers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"arcana_backend/internal/catalog/transport"
	"arcana_backend/platform/validator"
)

// Directory is the configured set of wholesale partners. It serves a stable
// snapshot of supplier records to the catalog builder. Entries are read-only
// after construction.
type Directory struct {
	suppliers []transport.Supplier
}

// NewDirectory creates a directory from the built-in seed, optionally
// replaced wholesale by a JSON file.
func NewDirectory(overridePath string, val *validator.Validator) (*Directory, error) {
	records := seedSuppliers()

	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read suppliers file: %w", err)
		}
		var loaded []transport.Supplier
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("decode suppliers file: %w", err)
		}
		records = loaded
	}

	if val != nil {
		for i := range records {
			if err := val.Struct(records[i]); err != nil {
				return nil, fmt.Errorf("supplier %q: %w", records[i].ID, err)
			}
		}
	}

	return &Directory{suppliers: records}, nil
}

// Suppliers returns a copy of the supplier records so callers can iterate
// over a snapshot that cannot mutate underneath them.
func (d *Directory) Suppliers(ctx context.Context) ([]transport.Supplier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := make([]transport.Supplier, len(d.suppliers))
	copy(snapshot, d.suppliers)
	return snapshot, nil
}

func seedSuppliers() []transport.Supplier {
	return []transport.Supplier{
		{
			ID:           "lumina-cristais",
			Name:         "Lumina Cristais",
			Platform:     "cj",
			URL:          "https://lumina-cristais.example.com",
			Category:     transport.CategoryCrystals,
			ShippingCost: 6.00,
			DeliveryDays: transport.DeliveryDays{Min: 5, Max: 12},
			Rating:       4.7,
			Promo:        "10% off first order",
			Products: []transport.SupplierProduct{
				{Name: "Amethyst Cluster", UnitCost: 3.40, MOQ: 2, InStock: true},
				{Name: "Rose Quartz Pendant", UnitCost: 2.10, MOQ: 1, InStock: true},
				{Name: "Clear Quartz Sphere", UnitCost: 5.80, MOQ: 1, InStock: false},
			},
		},
		{
			ID:           "arcano-tarot",
			Name:         "Arcano Tarot Supply",
			Platform:     "cj",
			URL:          "https://arcano-tarot.example.com",
			Category:     transport.CategoryTarot,
			ShippingCost: 4.50,
			DeliveryDays: transport.DeliveryDays{Min: 7, Max: 15},
			Rating:       4.4,
			Products: []transport.SupplierProduct{
				{Name: "Rider Waite Deck", UnitCost: 4.20, MOQ: 1, InStock: true},
				{Name: "Marseille Deck", UnitCost: 4.90, MOQ: 1, InStock: true},
				{Name: "Velvet Reading Cloth", UnitCost: 2.30, MOQ: 3, InStock: true},
			},
		},
		{
			ID:           "nag-aromas",
			Name:         "Nag Aromas",
			Platform:     "aliexpress",
			URL:          "https://nag-aromas.example.com",
			Category:     transport.CategoryIncense,
			ShippingCost: 3.20,
			DeliveryDays: transport.DeliveryDays{Min: 10, Max: 25},
			Rating:       4.1,
			Promo:        "free shipping over 30 units",
			Products: []transport.SupplierProduct{
				{Name: "Sandalwood Sticks 100pk", UnitCost: 1.60, MOQ: 5, InStock: true},
				{Name: "Palo Santo Bundle", UnitCost: 2.80, MOQ: 2, InStock: true},
			},
		},
		{
			ID:           "vela-mistica",
			Name:         "Vela Mistica",
			Platform:     "cj",
			URL:          "https://vela-mistica.example.com",
			Category:     transport.CategoryCandles,
			ShippingCost: 5.00,
			DeliveryDays: transport.DeliveryDays{Min: 4, Max: 9},
			Rating:       4.8,
			Products: []transport.SupplierProduct{
				{Name: "Seven Day Candle", UnitCost: 2.50, MOQ: 4, InStock: true},
				{Name: "Black Ritual Candle Set", UnitCost: 3.10, MOQ: 2, InStock: true},
				{Name: "Beeswax Pillar", UnitCost: 4.40, MOQ: 1, InStock: false},
			},
		},
		{
			ID:           "libris-occult",
			Name:         "Libris Occult",
			Platform:     "ingram",
			URL:          "https://libris-occult.example.com",
			Category:     transport.CategoryBooks,
			ShippingCost: 7.50,
			DeliveryDays: transport.DeliveryDays{Min: 3, Max: 6},
			Rating:       4.5,
			Products: []transport.SupplierProduct{
				{Name: "Herbal Grimoire", UnitCost: 6.80, MOQ: 1, InStock: true},
				{Name: "Beginner Astrology Guide", UnitCost: 5.20, MOQ: 1, InStock: true},
			},
		},
		{
			ID:           "prata-lunar",
			Name:         "Prata Lunar",
			Platform:     "cj",
			URL:          "https://prata-lunar.example.com",
			Category:     transport.CategoryJewelry,
			ShippingCost: 4.00,
			DeliveryDays: transport.DeliveryDays{Min: 6, Max: 14},
			Rating:       4.6,
			Promo:        "buy 5 get 1 free",
			Products: []transport.SupplierProduct{
				{Name: "Moon Phase Ring", UnitCost: 2.90, MOQ: 2, InStock: true},
				{Name: "Pentacle Necklace", UnitCost: 3.60, MOQ: 1, InStock: true},
				{Name: "Evil Eye Bracelet", UnitCost: 1.90, MOQ: 3, InStock: true},
			},
		},
	}
}
