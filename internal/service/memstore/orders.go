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

type Carts struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Cart
}

func NewCarts() *Carts {
	return &Carts{items: make(map[primitive.ObjectID]*models.Cart)}
}

func (s *Carts) Get(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[userID]
	if !ok {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	cp := *c
	cp.Items = append([]models.CartItem{}, c.Items...)
	return &cp, nil
}

func (s *Carts) Save(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart.UpdatedAt = time.Now()
	cp := *cart
	cp.Items = append([]models.CartItem{}, cart.Items...)
	s.items[cart.UserID] = &cp
	return nil
}

func (s *Carts) Clear(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

type Orders struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Order
}

func NewOrders(orders ...*models.Order) *Orders {
	s := &Orders{items: make(map[primitive.ObjectID]*models.Order)}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		cp := *o
		s.items[o.ID] = &cp
	}
	return s
}

func (s *Orders) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.UpdatedAt = time.Now()
	cp := *o
	s.items[o.ID] = &cp
	return nil
}

func (s *Orders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("find order: %w", apperr.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (s *Orders) List(_ context.Context, q models.OrderQuery) ([]*models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.Order
	for _, o := range s.items {
		if q.UserID != nil && o.UserID != *q.UserID {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if !q.From.IsZero() && o.CreatedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !o.CreatedAt.Before(q.To) {
			continue
		}
		cp := *o
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start, end := paginate(len(all), q.Page, q.PageSize)
	return all[start:end], int64(len(all)), nil
}

func (s *Orders) UpdateStatus(_ context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("find order: %w", apperr.ErrNotFound)
	}
	if o.Status != from {
		return nil, fmt.Errorf("update order status: %w", apperr.ErrConflict)
	}
	o.Status = change.Status
	o.StatusHistory = append(o.StatusHistory, change)
	o.UpdatedAt = change.At
	cp := *o
	return &cp, nil
}

func (s *Orders) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error) {
	orders, _, err := s.List(ctx, models.OrderQuery{From: from, To: to, PageSize: 100})
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}

func (s *Orders) CountByStatus(_ context.Context, status models.OrderStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, o := range s.items {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

type Ratings struct {
	mu    sync.Mutex
	items []*models.Rating
}

func NewRatings() *Ratings {
	return &Ratings{}
}

func (s *Ratings) Create(_ context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID && existing.OrderID == r.OrderID {
			return fmt.Errorf("insert rating: %w", apperr.ErrConflict)
		}
	}
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now()
	cp := *r
	s.items = append(s.items, &cp)
	return nil
}

func (s *Ratings) ListByProduct(_ context.Context, productID primitive.ObjectID, page, pageSize int) ([]*models.Rating, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.Rating
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].ProductID == productID {
			cp := *s.items[i]
			all = append(all, &cp)
		}
	}
	start, end := paginate(len(all), page, pageSize)
	return all[start:end], int64(len(all)), nil
}
