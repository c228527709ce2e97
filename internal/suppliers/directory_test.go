package suppliers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"arcana_backend/internal/catalog/transport"
	"arcana_backend/platform/validator"
)

func TestDirectory_SeedPassesValidation(t *testing.T) {
	dir, err := NewDirectory("", validator.New())
	if err != nil {
		t.Fatalf("seed directory failed validation: %v", err)
	}

	records, err := dir.Suppliers(context.Background())
	if err != nil {
		t.Fatalf("suppliers failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatalf("expected seeded suppliers")
	}
}

func TestDirectory_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppliers.json")
	payload := `[{
		"id": "custom-sup",
		"name": "Custom Supplier",
		"category": "tarot",
		"shippingCost": 2.5,
		"deliveryDays": {"min": 3, "max": 8},
		"products": [{"name": "Custom Deck", "unitCost": 4, "moq": 1, "inStock": true}]
	}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	dir, err := NewDirectory(path, validator.New())
	if err != nil {
		t.Fatalf("override directory failed: %v", err)
	}

	records, err := dir.Suppliers(context.Background())
	if err != nil {
		t.Fatalf("suppliers failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "custom-sup" {
		t.Fatalf("expected the override to replace the seed, got %+v", records)
	}
	if records[0].Category != transport.CategoryTarot {
		t.Fatalf("expected tarot category, got %s", records[0].Category)
	}
}

func TestDirectory_OverrideRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppliers.json")
	// missing required name and category
	payload := `[{"id": "broken"}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := NewDirectory(path, validator.New()); err == nil {
		t.Fatalf("expected validation error for invalid supplier")
	}
}

func TestDirectory_SnapshotIsACopy(t *testing.T) {
	dir, err := NewDirectory("", nil)
	if err != nil {
		t.Fatalf("directory failed: %v", err)
	}

	first, _ := dir.Suppliers(context.Background())
	first[0].ID = "mutated"

	second, _ := dir.Suppliers(context.Background())
	if second[0].ID == "mutated" {
		t.Fatalf("caller mutation leaked into the directory")
	}
}
