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

type RatingHandler struct {
	ratings *service.RatingService
}

func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// GET /v1/products/:id/ratings
func (h *RatingHandler) ListRatings(c *gin.Context) {
	productID, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	page, pageSize := getPaginationParams(c)
	ratings, err := h.ratings.ListProductRatings(c.Request.Context(), productID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// POST /v1/products/:id/ratings
func (h *RatingHandler) Rate(c *gin.Context) {
	productID, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in service.RateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	orderID, err := primitive.ObjectIDFromHex(in.OrderID)
	if err != nil {
		respondError(c, apperr.ErrInvalidID)
		return
	}

	rating, err := h.ratings.Rate(c.Request.Context(), middleware.CurrentUser(c), productID, orderID, in.Stars, in.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgRatingSaved),
		"code":    i18n.MsgRatingSaved,
		"data":    rating,
	})
}
