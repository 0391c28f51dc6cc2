package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"textile-store/internal/apperr"
	"textile-store/internal/i18n"
	"textile-store/internal/middleware"
	"textile-store/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type setQuantityRequest struct {
	Quantity *int64 `json:"quantity" binding:"required,min=0"`
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.carts.Get(c.Request.Context(), middleware.CurrentUser(c).ID, middleware.LocaleOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var in addItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		respondError(c, apperr.ErrInvalidID)
		return
	}

	view, err := h.carts.AddItem(c.Request.Context(), middleware.CurrentUser(c).ID, productID, in.Quantity, middleware.LocaleOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, view)
}

// PUT /v1/cart/items/:productId
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, err := parseObjectID(c, "productId")
	if err != nil {
		respondError(c, err)
		return
	}
	var in setQuantityRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.carts.SetQuantity(c.Request.Context(), middleware.CurrentUser(c).ID, productID, *in.Quantity, middleware.LocaleOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, view)
}

// DELETE /v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := parseObjectID(c, "productId")
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.carts.RemoveItem(c.Request.Context(), middleware.CurrentUser(c).ID, productID, middleware.LocaleOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, view)
}

// DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, i18n.MsgCartCleared)
}

func (h *CartHandler) respondCart(c *gin.Context, view interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgCartUpdated),
		"code":    i18n.MsgCartUpdated,
		"data":    view,
	})
}
