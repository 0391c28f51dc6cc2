package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"textile-store/internal/apperr"
	"textile-store/internal/i18n"
	"textile-store/internal/middleware"
	"textile-store/internal/service"
)

type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// GET /v1/admin/inventory/low-stock?threshold=
func (h *InventoryHandler) LowStock(c *gin.Context) {
	var threshold *int64
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			respondError(c, apperr.Invalid("threshold", "threshold must be zero or a positive number"))
			return
		}
		threshold = &v
	}

	products, applied, err := h.inventory.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "threshold": applied})
}

// POST /v1/admin/inventory/:id/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in service.AdjustInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.inventory.Adjust(c.Request.Context(), id, in.Delta, in.Reason, middleware.CurrentUser(c).Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgStockUpdated),
		"code":    i18n.MsgStockUpdated,
		"data":    product,
	})
}

// PUT /v1/admin/inventory/:id
func (h *InventoryHandler) Set(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in service.SetStockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.inventory.Set(c.Request.Context(), id, *in.Stock, middleware.CurrentUser(c).Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgStockUpdated),
		"code":    i18n.MsgStockUpdated,
		"data":    product,
	})
}
