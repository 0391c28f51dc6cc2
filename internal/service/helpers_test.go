package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/cache"
	"textile-store/internal/events"
	"textile-store/internal/models"
)

func newTestCache(t *testing.T) *cache.Memory {
	t.Helper()
	c := cache.NewMemory(time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func fabric(sku string, price, stock int64) *models.Product {
	return &models.Product{
		ID:       primitive.NewObjectID(),
		SKU:      sku,
		Name:     "Kain " + sku,
		NameEN:   "Fabric " + sku,
		Category: "katun",
		Unit:     models.UnitMeter,
		PriceIDR: price,
		Stock:    stock,
		IsActive: true,
	}
}

type invalidations struct {
	mu  sync.Mutex
	ids []primitive.ObjectID
}

func (i *invalidations) InvalidateProduct(_ context.Context, id primitive.ObjectID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids = append(i.ids, id)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordedEvents) Close() error { return nil }

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

var testLog = zap.NewNop()
