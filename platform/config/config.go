// Package config loads the process configuration from the environment, with
// a narrow interface per consumer so modules only see the settings they use.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// PricingConfig provides the tunable constants of the pricing engine.
type PricingConfig interface {
	GetMarkupMultiplier() float64
	GetMinMarginEur() float64
	GetCustomerShippingEur() float64
}

// StoreConfig provides settings for the catalog snapshot store.
type StoreConfig interface {
	GetCatalogFilePath() string
}

// SchedulerConfig provides settings for the background refresh scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRefreshInterval() time.Duration
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// CacheConfig provides settings for the derived-view cache.
type CacheConfig interface {
	GetRedisURL() string
	GetViewCacheTTL() time.Duration
}

// SupplierAPIConfig provides settings for the dropshipping supplier API.
type SupplierAPIConfig interface {
	GetSupplierAPIBaseURL() string
	GetSupplierAPIEmail() string
	GetSupplierAPIKey() string
	GetSupplierAPIRatePerSec() float64
	IsSupplierAPIEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	CORSAllowAll        bool
	CORSOrigins         []string
	MarkupMultiplier    float64
	MinMarginEur        float64
	CustomerShippingEur float64
	CatalogFilePath     string
	SuppliersFilePath   string
	RedisURL            string
	AsynqQueueName      string
	AsynqConcurrency    int
	RefreshInterval     time.Duration
	ViewCacheTTL        time.Duration
	SupplierAPIBaseURL  string
	SupplierAPIEmail    string
	SupplierAPIKey      string
	SupplierAPIRate     float64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// PricingConfig implementation
func (c *Config) GetMarkupMultiplier() float64    { return c.MarkupMultiplier }
func (c *Config) GetMinMarginEur() float64        { return c.MinMarginEur }
func (c *Config) GetCustomerShippingEur() float64 { return c.CustomerShippingEur }

// StoreConfig implementation
func (c *Config) GetCatalogFilePath() string { return c.CatalogFilePath }

// GetSuppliersFilePath returns the optional supplier seed override file.
func (c *Config) GetSuppliersFilePath() string { return c.SuppliersFilePath }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetRefreshInterval() time.Duration { return c.RefreshInterval }
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }

// CacheConfig implementation
func (c *Config) GetViewCacheTTL() time.Duration { return c.ViewCacheTTL }

// SupplierAPIConfig implementation
func (c *Config) GetSupplierAPIBaseURL() string     { return c.SupplierAPIBaseURL }
func (c *Config) GetSupplierAPIEmail() string       { return c.SupplierAPIEmail }
func (c *Config) GetSupplierAPIKey() string         { return c.SupplierAPIKey }
func (c *Config) GetSupplierAPIRatePerSec() float64 { return c.SupplierAPIRate }
func (c *Config) IsSupplierAPIEnabled() bool {
	return c.SupplierAPIBaseURL != "" && c.SupplierAPIKey != ""
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		MarkupMultiplier:    mustFloat(getEnv("PRICING_MARKUP", "2.8")),
		MinMarginEur:        mustFloat(getEnv("PRICING_MIN_MARGIN_EUR", "5.00")),
		CustomerShippingEur: mustFloat(getEnv("PRICING_CUSTOMER_SHIPPING_EUR", "4.50")),
		CatalogFilePath:     getEnv("CATALOG_FILE_PATH", "data/catalog.json"),
		SuppliersFilePath:   getEnv("SUPPLIERS_FILE_PATH", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE_NAME", "catalog"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		RefreshInterval:     mustDuration(getEnv("CATALOG_REFRESH_INTERVAL", "12h")),
		ViewCacheTTL:        mustDuration(getEnv("VIEW_CACHE_TTL", "5m")),
		SupplierAPIBaseURL:  getEnv("SUPPLIER_API_BASE_URL", ""),
		SupplierAPIEmail:    getEnv("SUPPLIER_API_EMAIL", ""),
		SupplierAPIKey:      getEnv("SUPPLIER_API_KEY", ""),
		SupplierAPIRate:     mustFloat(getEnv("SUPPLIER_API_RATE_PER_SEC", "1")),
	}

	if cfg.MarkupMultiplier <= 0 {
		return nil, fmt.Errorf("PRICING_MARKUP must be greater than 0")
	}
	if cfg.MinMarginEur < 0 {
		return nil, fmt.Errorf("PRICING_MIN_MARGIN_EUR cannot be negative")
	}
	if cfg.CustomerShippingEur < 0 {
		return nil, fmt.Errorf("PRICING_CUSTOMER_SHIPPING_EUR cannot be negative")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("CATALOG_REFRESH_INTERVAL must be a positive duration")
	}
	if cfg.SupplierAPIBaseURL != "" && cfg.SupplierAPIKey == "" {
		return nil, fmt.Errorf("SUPPLIER_API_KEY is required when SUPPLIER_API_BASE_URL is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
