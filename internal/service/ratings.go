package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

type RateInput struct {
	OrderID string `json:"order_id" binding:"required"`
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// RatingService registra calificaciones de productos comprados
type RatingService struct {
	ratings     RatingStore
	orders      OrderStore
	products    ProductStore
	invalidator ProductInvalidator
	log         *zap.Logger
}

func NewRatingService(ratings RatingStore, orders OrderStore, products ProductStore, invalidator ProductInvalidator, log *zap.Logger) *RatingService {
	return &RatingService{ratings: ratings, orders: orders, products: products, invalidator: invalidator, log: log}
}

// Rate guarda la calificación si el pedido es del usuario, está completado y
// contiene el producto. Solo una por (usuario, producto, pedido).
func (s *RatingService) Rate(ctx context.Context, user *models.User, productID, orderID primitive.ObjectID, stars int, comment string) (*models.Rating, error) {
	if stars < 1 || stars > 5 {
		return nil, apperr.Invalid("stars", "stars must be between 1 and 5")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID {
		return nil, fmt.Errorf("order %s: %w", orderID.Hex(), apperr.ErrNotFound)
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, apperr.Invalid("order_id", "only completed orders can be rated")
	}
	if !order.HasProduct(productID) {
		return nil, apperr.Invalid("order_id", "order does not contain this product")
	}

	rating := &models.Rating{
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		OrderID:   orderID,
		Stars:     stars,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	if err := s.products.AddRating(ctx, productID, stars); err != nil {
		s.log.Error("update rating average failed", zap.String("product_id", productID.Hex()), zap.Error(err))
	}
	s.invalidator.InvalidateProduct(ctx, productID)
	return rating, nil
}

// ListProductRatings pagina las calificaciones de un producto
func (s *RatingService) ListProductRatings(ctx context.Context, productID primitive.ObjectID, page, pageSize int) (models.Page[*models.Rating], error) {
	page, pageSize = pageParams(page, pageSize)
	ratings, total, err := s.ratings.ListByProduct(ctx, productID, page, pageSize)
	if err != nil {
		return models.Page[*models.Rating]{}, err
	}
	return models.NewPage(ratings, total, page, pageSize), nil
}
