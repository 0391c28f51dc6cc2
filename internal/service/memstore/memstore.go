// Package memstore implementa los stores del servicio en memoria, para
// pruebas de servicios, handlers y storectl sin MongoDB. Solo lo importan
// archivos _test.go; los binarios usan internal/repository.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

func paginate(n, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}

// Products es un ProductStore en memoria
type Products struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Product
}

func NewProducts(products ...*models.Product) *Products {
	s := &Products{items: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		cp := *p
		s.items[p.ID] = &cp
	}
	return s
}

func (s *Products) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if !existing.IsDeleted && existing.SKU == p.SKU {
			return fmt.Errorf("insert product: %w", apperr.ErrConflict)
		}
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *Products) get(id primitive.ObjectID) (*models.Product, error) {
	p, ok := s.items[id]
	if !ok || p.IsDeleted {
		return nil, fmt.Errorf("find product: %w", apperr.ErrNotFound)
	}
	return p, nil
}

func (s *Products) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (s *Products) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[primitive.ObjectID]*models.Product)
	for _, id := range ids {
		if p, err := s.get(id); err == nil {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *Products) FindAll(_ context.Context, q models.ProductQuery) ([]*models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.Product
	for _, p := range s.items {
		if p.IsDeleted {
			continue
		}
		if q.PublicOnly && !p.IsActive {
			continue
		}
		if !q.PublicOnly && q.Active != nil && p.IsActive != *q.Active {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.NameEN+" "+p.Description), strings.ToLower(q.Search)) {
			continue
		}
		if q.MinPrice > 0 && p.PriceIDR < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && p.PriceIDR > q.MaxPrice {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	start, end := paginate(len(all), q.Page, q.PageSize)
	return all[start:end], int64(len(all)), nil
}

func (s *Products) Update(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(id)
	if err != nil {
		return err
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "name_en":
			p.NameEN = v.(string)
		case "description":
			p.Description = v.(string)
		case "description_en":
			p.DescriptionEN = v.(string)
		case "category":
			p.Category = v.(string)
		case "material":
			p.Material = v.(string)
		case "color":
			p.Color = v.(string)
		case "unit":
			p.Unit = v.(string)
		case "price_idr":
			p.PriceIDR = v.(int64)
		case "stock":
			p.Stock = v.(int64)
		case "images":
			p.Images = v.([]string)
		case "attributes":
			p.Attributes = v.(map[string]string)
		case "is_active":
			p.IsActive = v.(bool)
		}
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (s *Products) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.IsDeleted = true
	p.IsActive = false
	return nil
}

func (s *Products) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range s.items {
		if p.Available() && p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Products) AdjustStock(_ context.Context, id primitive.ObjectID, delta int64) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if p.Stock+delta < 0 {
		return nil, fmt.Errorf("adjust stock: %w", apperr.ErrInsufficientStock)
	}
	p.Stock += delta
	cp := *p
	return &cp, nil
}

func (s *Products) SetStock(ctx context.Context, id primitive.ObjectID, value int64) error {
	return s.Update(ctx, id, map[string]interface{}{"stock": value})
}

func (s *Products) LowStock(_ context.Context, threshold int64, limit int64) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Product, 0)
	for _, p := range s.items {
		if p.Available() && p.Stock <= threshold {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Products) AddRating(_ context.Context, id primitive.ObjectID, stars int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.RatingAvg = models.NextRatingAverage(p.RatingAvg, p.RatingCount, stars)
	p.RatingCount++
	return nil
}

func (s *Products) Count(_ context.Context, activeOnly bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, p := range s.items {
		if p.IsDeleted || (activeOnly && !p.IsActive) {
			continue
		}
		n++
	}
	return n, nil
}

func (s *Products) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	low, _ := s.LowStock(ctx, threshold, 0)
	return int64(len(low)), nil
}

// Stock devuelve el stock actual, incluso de productos eliminados
func (s *Products) Stock(id primitive.ObjectID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.items[id]; ok {
		return p.Stock
	}
	return -1
}
