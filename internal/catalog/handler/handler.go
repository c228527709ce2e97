package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"arcana_backend/internal/catalog/repository"
	"arcana_backend/internal/catalog/service"
	"arcana_backend/internal/catalog/transport"
	"arcana_backend/platform/httpkit"
	"arcana_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// RefreshTrigger enqueues a catalog rebuild for background execution.
type RefreshTrigger interface {
	TriggerRefresh(ctx context.Context) (string, error)
}

// Handler handles HTTP requests for the catalog read surface.
type Handler struct {
	svc     *service.Service
	val     *validator.Validator
	cache   *repository.ViewCache
	trigger RefreshTrigger
}

// New creates a new catalog handler. The refresh trigger may be nil; manual
// refreshes then run inline.
func New(svc *service.Service, val *validator.Validator, cache *repository.ViewCache, trigger RefreshTrigger) *Handler {
	return &Handler{svc: svc, val: val, cache: cache, trigger: trigger}
}

// cached serves a derived view from the Redis cache when possible, computing
// and storing it otherwise.
func (h *Handler) cached(c *gin.Context, view string, compute func(ctx context.Context) (interface{}, error)) {
	ctx := c.Request.Context()

	if payload, ok := h.cache.Get(ctx, view); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	result, err := compute(ctx)
	if httpkit.HandleError(c, err) {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to encode response", nil)
		return
	}

	h.cache.Set(ctx, view, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// GetCatalog returns the full priced catalog.
// GET /api/v1/catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	result, err := h.svc.Catalog(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetBestDeals returns the top-ranked deals.
// GET /api/v1/catalog/best-deals?top=10
func (h *Handler) GetBestDeals(c *gin.Context) {
	var req transport.BestDealsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	h.cached(c, fmt.Sprintf("best-deals:%d", req.Top), func(ctx context.Context) (interface{}, error) {
		return h.svc.BestDeals(ctx, req.Top)
	})
}

// GetCheapestByCategory returns the lowest-priced item per category.
// GET /api/v1/catalog/cheapest-by-category
func (h *Handler) GetCheapestByCategory(c *gin.Context) {
	h.cached(c, "cheapest-by-category", func(ctx context.Context) (interface{}, error) {
		return h.svc.CheapestByCategory(ctx)
	})
}

// GetFastestDelivery returns items deliverable within maxDays.
// GET /api/v1/catalog/fastest-delivery?maxDays=7
func (h *Handler) GetFastestDelivery(c *gin.Context) {
	var req transport.FastestDeliveryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	h.cached(c, fmt.Sprintf("fastest-delivery:%d", req.MaxDays), func(ctx context.Context) (interface{}, error) {
		return h.svc.FastestDelivery(ctx, req.MaxDays)
	})
}

// GetActivePromos returns items with an active supplier promotion.
// GET /api/v1/catalog/active-promos
func (h *Handler) GetActivePromos(c *gin.Context) {
	h.cached(c, "active-promos", func(ctx context.Context) (interface{}, error) {
		return h.svc.ActivePromos(ctx)
	})
}

// GetReport returns the aggregate catalog report.
// GET /api/v1/catalog/report
func (h *Handler) GetReport(c *gin.Context) {
	h.cached(c, "report", func(ctx context.Context) (interface{}, error) {
		return h.svc.Report(ctx)
	})
}

// GetCategoryDetail returns the summary and items of one category.
// GET /api/v1/catalog/categories/:category
func (h *Handler) GetCategoryDetail(c *gin.Context) {
	category := transport.Category(c.Param("category"))
	if category == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	h.cached(c, "categories:"+string(category), func(ctx context.Context) (interface{}, error) {
		return h.svc.CategoryDetail(ctx, category)
	})
}

// Refresh triggers a catalog rebuild. With a scheduler attached the rebuild
// runs in the background; otherwise it runs inline.
// POST /api/v1/catalog/refresh
func (h *Handler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	if h.trigger != nil {
		jobID, err := h.trigger.TriggerRefresh(ctx)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.RefreshResponse{Status: "scheduled", JobID: jobID})
		return
	}

	snapshot, err := h.svc.Rebuild(ctx, "manual")
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RefreshResponse{Status: "completed", Items: len(snapshot.Products)})
}
