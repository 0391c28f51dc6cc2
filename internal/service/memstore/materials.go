package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

type Materials struct {
	mu        sync.Mutex
	purchases []*models.PurchasedMaterial
	usages    []*models.UsedMaterial
	stock     []models.MaterialStock
}

func NewMaterials() *Materials {
	return &Materials{}
}

func (s *Materials) CreatePurchase(_ context.Context, m *models.PurchasedMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	cp := *m
	s.purchases = append(s.purchases, &cp)
	return nil
}

func (s *Materials) CreateUsage(_ context.Context, m *models.UsedMaterial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	cp := *m
	s.usages = append(s.usages, &cp)
	return nil
}

func (s *Materials) ListPurchases(ctx context.Context, nameKey string, page, pageSize int) ([]*models.PurchasedMaterial, int64, error) {
	all, _ := s.AllPurchases(ctx, nameKey)
	start, end := paginate(len(all), page, pageSize)
	return all[start:end], int64(len(all)), nil
}

func (s *Materials) ListUsages(ctx context.Context, nameKey string, page, pageSize int) ([]*models.UsedMaterial, int64, error) {
	all, _ := s.AllUsages(ctx, nameKey)
	start, end := paginate(len(all), page, pageSize)
	return all[start:end], int64(len(all)), nil
}

func (s *Materials) AllPurchases(_ context.Context, nameKey string) ([]*models.PurchasedMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.PurchasedMaterial, 0)
	for _, m := range s.purchases {
		if nameKey == "" || m.NameKey == nameKey {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Materials) AllUsages(_ context.Context, nameKey string) ([]*models.UsedMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.UsedMaterial, 0)
	for _, m := range s.usages {
		if nameKey == "" || m.NameKey == nameKey {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Materials) DeletePurchase(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.purchases {
		if m.ID == id {
			s.purchases = append(s.purchases[:i], s.purchases[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete purchase: %w", apperr.ErrNotFound)
}

func (s *Materials) DeleteUsage(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.usages {
		if m.ID == id {
			s.usages = append(s.usages[:i], s.usages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete usage: %w", apperr.ErrNotFound)
}

func (s *Materials) ReplaceStock(_ context.Context, rows []models.MaterialStock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = append([]models.MaterialStock{}, rows...)
	return nil
}

func (s *Materials) StockTable(_ context.Context) ([]models.MaterialStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.MaterialStock{}, s.stock...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].NameKey != out[j].NameKey {
			return out[i].NameKey < out[j].NameKey
		}
		return out[i].Unit < out[j].Unit
	})
	return out, nil
}
