package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textile-store/internal/i18n"
	"textile-store/internal/middleware"
	"textile-store/internal/models"
	"textile-store/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// POST /v1/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var in service.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	locale := middleware.LocaleOf(c)
	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(locale, i18n.MsgOrderPlaced, order.Number),
		"code":    i18n.MsgOrderPlaced,
		"data":    order,
		"display": models.Display{"total": i18n.FormatIDR(order.Total, locale)},
	})
}

// GET /v1/orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	page, pageSize := getPaginationParams(c)
	orders, err := h.orders.ListMyOrders(c.Request.Context(), middleware.CurrentUser(c).ID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /v1/orders/:id
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.orders.GetMyOrder(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// POST /v1/orders/:id/cancel
func (h *OrderHandler) CancelMyOrder(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.orders.CancelMyOrder(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgOrderCancelled),
		"code":    i18n.MsgOrderCancelled,
		"data":    order,
	})
}

// GET /v1/admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	q, err := buildOrderQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := h.orders.ListOrders(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /v1/admin/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PATCH /v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in updateStatusRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, in.Status, middleware.CurrentUser(c).Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgOrderStatusUpdated),
		"code":    i18n.MsgOrderStatusUpdated,
		"data":    order,
	})
}
