package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

const lowStockLimit = 100

type AdjustInput struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=200"`
}

type SetStockInput struct {
	Stock *int64 `json:"stock" binding:"required"`
}

// InventoryService ajusta el stock de venta de los productos
type InventoryService struct {
	products    ProductStore
	invalidator ProductInvalidator
	threshold   int64
	log         *zap.Logger
}

func NewInventoryService(products ProductStore, invalidator ProductInvalidator, threshold int64, log *zap.Logger) *InventoryService {
	return &InventoryService{products: products, invalidator: invalidator, threshold: threshold, log: log}
}

// Adjust suma delta al stock; el resultado no puede quedar negativo
func (s *InventoryService) Adjust(ctx context.Context, id primitive.ObjectID, delta int64, reason, by string) (*models.Product, error) {
	if delta == 0 {
		return nil, apperr.Invalid("delta", "delta cannot be zero")
	}
	p, err := s.products.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	s.invalidator.InvalidateProduct(ctx, id)
	s.log.Info("stock adjusted",
		zap.String("sku", p.SKU),
		zap.Int64("delta", delta),
		zap.Int64("stock", p.Stock),
		zap.String("reason", strings.TrimSpace(reason)),
		zap.String("by", by),
	)
	return p, nil
}

// Set fija el stock a un valor absoluto
func (s *InventoryService) Set(ctx context.Context, id primitive.ObjectID, value int64, by string) (*models.Product, error) {
	if value < 0 {
		return nil, apperr.Invalid("stock", "stock cannot be negative")
	}
	if err := s.products.SetStock(ctx, id, value); err != nil {
		return nil, err
	}
	s.invalidator.InvalidateProduct(ctx, id)
	s.log.Info("stock set", zap.String("product_id", id.Hex()), zap.Int64("stock", value), zap.String("by", by))
	return s.products.FindByID(ctx, id)
}

// LowStock lista productos activos con stock <= threshold; nil usa el umbral
// configurado. Devuelve también el umbral aplicado.
func (s *InventoryService) LowStock(ctx context.Context, threshold *int64) ([]*models.Product, int64, error) {
	limit := s.threshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, 0, apperr.Invalid("threshold", "threshold cannot be negative")
		}
		limit = *threshold
	}
	products, err := s.products.LowStock(ctx, limit, lowStockLimit)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, limit, nil
}
