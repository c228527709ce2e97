package transport

import "time"

// Category identifies a product category in the storefront.
// Unknown categories are legal input; pricing falls back to a default
// market multiplier for them.
type Category string

const (
	CategoryCrystals Category = "cristais"
	CategoryTarot    Category = "tarot"
	CategoryIncense  Category = "incensos"
	CategoryCandles  Category = "velas"
	CategoryBooks    Category = "livros"
	CategoryJewelry  Category = "joias"
)

// DeliveryDays is a supplier's delivery-time range in days.
type DeliveryDays struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SupplierProduct is one item offered by a supplier.
type SupplierProduct struct {
	Name     string  `json:"name" validate:"required"`
	UnitCost float64 `json:"unitCost"`
	MOQ      int     `json:"moq"`
	InStock  bool    `json:"inStock"`
}

// Supplier is a sourcing partner with its offered products.
// Supplied wholesale by configuration or the supplier API; read-only
// to the pricing engine.
type Supplier struct {
	ID           string            `json:"id" validate:"required"`
	Name         string            `json:"name" validate:"required"`
	Platform     string            `json:"platform"`
	URL          string            `json:"url" validate:"omitempty,url"`
	Category     Category          `json:"category" validate:"required"`
	ShippingCost float64           `json:"shippingCost"`
	DeliveryDays DeliveryDays      `json:"deliveryDays"`
	Rating       float64           `json:"rating"`
	Promo        string            `json:"promo,omitempty"`
	Products     []SupplierProduct `json:"products"`
}

// SupplierSummary is the supplier data embedded in every catalog item.
type SupplierSummary struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Platform     string       `json:"platform"`
	URL          string       `json:"url"`
	DeliveryDays DeliveryDays `json:"deliveryDays"`
	Rating       float64      `json:"rating"`
	Promo        *string      `json:"promo"`
}

// CatalogItem is a priced, sellable entry derived from exactly one
// (supplier, product) pair. Items are created fresh on every rebuild and
// never mutated afterwards.
type CatalogItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	SalePrice     float64         `json:"salePrice"`
	MarketPrice   float64         `json:"marketPrice"`
	SupplierPrice float64         `json:"supplierPrice"`
	TotalCost     float64         `json:"totalCost"`
	MarginEur     float64         `json:"marginEur"`
	MarginPct     int             `json:"marginPct"`
	MOQ           int             `json:"moq"`
	Supplier      SupplierSummary `json:"supplier"`
}

// Snapshot is the durable catalog artifact written after every rebuild.
type Snapshot struct {
	LastUpdate time.Time     `json:"lastUpdate"`
	Markup     float64       `json:"markup"`
	Products   []CatalogItem `json:"products"`
}

// Requests

type BestDealsRequest struct {
	Top int `form:"top" validate:"omitempty,min=1,max=100"`
}

type FastestDeliveryRequest struct {
	MaxDays int `form:"maxDays" validate:"omitempty,min=1,max=90"`
}

// Responses

type CatalogResponse struct {
	LastUpdate time.Time     `json:"lastUpdate"`
	Markup     float64       `json:"markup"`
	Total      int           `json:"total"`
	Products   []CatalogItem `json:"products"`
}

type ItemListResponse struct {
	Items []CatalogItem `json:"items"`
	Total int           `json:"total"`
}

type CheapestByCategoryResponse struct {
	Categories map[Category]CatalogItem `json:"categories"`
}

// CategorySummary aggregates one category of the built catalog.
type CategorySummary struct {
	Category     Category `json:"category"`
	Items        int      `json:"items"`
	MinSalePrice float64  `json:"minSalePrice"`
	MaxSalePrice float64  `json:"maxSalePrice"`
	AvgMarginPct float64  `json:"avgMarginPct"`
}

// CategoryDetailResponse is the per-category summary endpoint payload.
type CategoryDetailResponse struct {
	Summary CategorySummary `json:"summary"`
	Items   []CatalogItem   `json:"items"`
}

// ReportResponse is the aggregate report over the last-built catalog.
type ReportResponse struct {
	LastUpdate         time.Time                `json:"lastUpdate"`
	TotalItems         int                      `json:"totalItems"`
	Categories         []CategorySummary        `json:"categories"`
	BestDeals          []CatalogItem            `json:"bestDeals"`
	CheapestByCategory map[Category]CatalogItem `json:"cheapestByCategory"`
	FastestDelivery    []CatalogItem            `json:"fastestDelivery"`
	ActivePromos       []CatalogItem            `json:"activePromos"`
}

type RefreshResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"jobId,omitempty"`
	Items     int    `json:"items,omitempty"`
	Suppliers int    `json:"suppliers,omitempty"`
}
