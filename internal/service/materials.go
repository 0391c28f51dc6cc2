package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

type PurchaseInput struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Supplier    string     `json:"supplier" binding:"omitempty,max=200"`
	Quantity    string     `json:"quantity" binding:"required"`
	PriceIDR    int64      `json:"price_idr" binding:"min=0"`
	PurchasedAt *time.Time `json:"purchased_at"`
	Note        string     `json:"note" binding:"omitempty,max=500"`
}

type UsageInput struct {
	Name     string     `json:"name" binding:"required,max=200"`
	Quantity string     `json:"quantity" binding:"required"`
	UsedFor  string     `json:"used_for" binding:"omitempty,max=200"`
	UsedAt   *time.Time `json:"used_at"`
	Note     string     `json:"note" binding:"omitempty,max=500"`
	Force    bool       `json:"force"`
}

// MaterialService lleva el libro de materia prima del almacén
type MaterialService struct {
	store MaterialStore
	log   *zap.Logger
	now   func() time.Time
}

func NewMaterialService(store MaterialStore, log *zap.Logger) *MaterialService {
	return &MaterialService{store: store, log: log, now: time.Now}
}

// NameKey normaliza un nombre de material para compararlo sin mayúsculas
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func cleanName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", apperr.Invalid("name", "name is required")
	}
	return name, nil
}

// RecordPurchase registra una compra de materia prima
func (s *MaterialService) RecordPurchase(ctx context.Context, in PurchaseInput) (*models.PurchasedMaterial, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	qty, err := ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.PriceIDR < 0 {
		return nil, apperr.Invalid("price_idr", "price cannot be negative")
	}

	m := &models.PurchasedMaterial{
		Name:        name,
		NameKey:     NameKey(name),
		Supplier:    strings.TrimSpace(in.Supplier),
		Quantity:    qty.String(),
		PriceIDR:    in.PriceIDR,
		PurchasedAt: s.at(in.PurchasedAt),
		Note:        strings.TrimSpace(in.Note),
	}
	if err := s.store.CreatePurchase(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordUsage registra un consumo; sin force no deja el saldo negativo
func (s *MaterialService) RecordUsage(ctx context.Context, in UsageInput) (*models.UsedMaterial, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	qty, err := ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	key := NameKey(name)

	if !in.Force {
		available, err := s.available(ctx, key, qty.Unit)
		if err != nil {
			return nil, err
		}
		if available.LessThan(qty.Amount) {
			return nil, fmt.Errorf("%s: %s %s available: %w", name, available.String(), qty.Unit, apperr.ErrInsufficientStock)
		}
	}

	m := &models.UsedMaterial{
		Name:     name,
		NameKey:  key,
		Quantity: qty.String(),
		UsedFor:  strings.TrimSpace(in.UsedFor),
		UsedAt:   s.at(in.UsedAt),
		Note:     strings.TrimSpace(in.Note),
	}
	if err := s.store.CreateUsage(ctx, m); err != nil {
		return nil, err
	}
	if in.Force {
		s.log.Warn("material usage forced", zap.String("name", name), zap.String("quantity", m.Quantity))
	}
	return m, nil
}

func (s *MaterialService) available(ctx context.Context, key, unit string) (decimal.Decimal, error) {
	purchases, err := s.store.AllPurchases(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	usages, err := s.store.AllUsages(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	for _, row := range s.tally(purchases, usages) {
		if row.unit == unit {
			return row.purchased.Sub(row.used), nil
		}
	}
	return decimal.Zero, nil
}

func (s *MaterialService) ListPurchases(ctx context.Context, name string, page, pageSize int) (models.Page[*models.PurchasedMaterial], error) {
	page, pageSize = pageParams(page, pageSize)
	items, total, err := s.store.ListPurchases(ctx, NameKey(name), page, pageSize)
	if err != nil {
		return models.Page[*models.PurchasedMaterial]{}, err
	}
	return models.NewPage(items, total, page, pageSize), nil
}

func (s *MaterialService) ListUsages(ctx context.Context, name string, page, pageSize int) (models.Page[*models.UsedMaterial], error) {
	page, pageSize = pageParams(page, pageSize)
	items, total, err := s.store.ListUsages(ctx, NameKey(name), page, pageSize)
	if err != nil {
		return models.Page[*models.UsedMaterial]{}, err
	}
	return models.NewPage(items, total, page, pageSize), nil
}

func (s *MaterialService) DeletePurchase(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeletePurchase(ctx, id)
}

func (s *MaterialService) DeleteUsage(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteUsage(ctx, id)
}

// Reconcile recalcula la tabla de stock (compras - usos) y la reemplaza
func (s *MaterialService) Reconcile(ctx context.Context) ([]models.MaterialStock, error) {
	purchases, err := s.store.AllPurchases(ctx, "")
	if err != nil {
		return nil, err
	}
	usages, err := s.store.AllUsages(ctx, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	tallies := s.tally(purchases, usages)
	rows := make([]models.MaterialStock, 0, len(tallies))
	for _, t := range tallies {
		available := t.purchased.Sub(t.used)
		rows = append(rows, models.MaterialStock{
			Name:      t.name,
			NameKey:   t.key,
			Unit:      t.unit,
			Purchased: t.purchased.String(),
			Used:      t.used.String(),
			Available: available.String(),
			Deficit:   available.IsNegative(),
			UpdatedAt: now,
		})
	}

	if err := s.store.ReplaceStock(ctx, rows); err != nil {
		return nil, err
	}
	s.log.Info("materials reconciled", zap.Int("rows", len(rows)))
	return rows, nil
}

// StockTable devuelve la última tabla reconciliada
func (s *MaterialService) StockTable(ctx context.Context) ([]models.MaterialStock, error) {
	rows, err := s.store.StockTable(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.MaterialStock{}
	}
	return rows, nil
}

type tally struct {
	key       string
	name      string
	unit      string
	purchased decimal.Decimal
	used      decimal.Decimal
}

// tally agrupa por (nombre, unidad) ordenado por nombre y unidad. Las
// cantidades guardadas que no se puedan leer se ignoran con un aviso.
func (s *MaterialService) tally(purchases []*models.PurchasedMaterial, usages []*models.UsedMaterial) []*tally {
	groups := map[string]*tally{}
	get := func(name, unit string) *tally {
		key := NameKey(name)
		id := key + "\x00" + unit
		t, ok := groups[id]
		if !ok {
			t = &tally{key: key, name: name, unit: unit, purchased: decimal.Zero, used: decimal.Zero}
			groups[id] = t
		}
		return t
	}

	for _, p := range purchases {
		q, err := ParseQuantity(p.Quantity)
		if err != nil {
			s.log.Warn("skipping unreadable purchase quantity", zap.String("id", p.ID.Hex()), zap.String("quantity", p.Quantity))
			continue
		}
		t := get(p.Name, q.Unit)
		t.purchased = t.purchased.Add(q.Amount)
	}
	for _, u := range usages {
		q, err := ParseQuantity(u.Quantity)
		if err != nil {
			s.log.Warn("skipping unreadable usage quantity", zap.String("id", u.ID.Hex()), zap.String("quantity", u.Quantity))
			continue
		}
		t := get(u.Name, q.Unit)
		t.used = t.used.Add(q.Amount)
	}

	out := make([]*tally, 0, len(groups))
	for _, t := range groups {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].key != out[j].key {
			return out[i].key < out[j].key
		}
		return out[i].unit < out[j].unit
	})
	return out
}

func (s *MaterialService) at(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return s.now()
	}
	return *t
}
