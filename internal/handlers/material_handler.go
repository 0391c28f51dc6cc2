package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textile-store/internal/i18n"
	"textile-store/internal/middleware"
	"textile-store/internal/service"
)

type MaterialHandler struct {
	materials *service.MaterialService
}

func NewMaterialHandler(materials *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// GET /v1/admin/materials/purchases?name=
func (h *MaterialHandler) ListPurchases(c *gin.Context) {
	page, pageSize := getPaginationParams(c)
	items, err := h.materials.ListPurchases(c.Request.Context(), c.Query("name"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /v1/admin/materials/purchases
func (h *MaterialHandler) RecordPurchase(c *gin.Context) {
	var in service.PurchaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	m, err := h.materials.RecordPurchase(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgMaterialRecorded),
		"code":    i18n.MsgMaterialRecorded,
		"data":    m,
	})
}

// DELETE /v1/admin/materials/purchases/:id
func (h *MaterialHandler) DeletePurchase(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.materials.DeletePurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, i18n.MsgMaterialDeleted)
}

// GET /v1/admin/materials/usages?name=
func (h *MaterialHandler) ListUsages(c *gin.Context) {
	page, pageSize := getPaginationParams(c)
	items, err := h.materials.ListUsages(c.Request.Context(), c.Query("name"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /v1/admin/materials/usages
func (h *MaterialHandler) RecordUsage(c *gin.Context) {
	var in service.UsageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	m, err := h.materials.RecordUsage(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgMaterialRecorded),
		"code":    i18n.MsgMaterialRecorded,
		"data":    m,
	})
}

// DELETE /v1/admin/materials/usages/:id
func (h *MaterialHandler) DeleteUsage(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.materials.DeleteUsage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, i18n.MsgMaterialDeleted)
}

// GET /v1/admin/materials/stock
func (h *MaterialHandler) StockTable(c *gin.Context) {
	rows, err := h.materials.StockTable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// POST /v1/admin/materials/reconcile
func (h *MaterialHandler) Reconcile(c *gin.Context) {
	rows, err := h.materials.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgMaterialsReconciled),
		"code":    i18n.MsgMaterialsReconciled,
		"data":    rows,
	})
}
