package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
	"textile-store/internal/service/mocks"
)

func TestCatalogCreateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductStore(ctrl)
	s := NewCatalogService(store, newTestCache(t), testLog)
	ctx := context.Background()

	tests := []struct {
		name    string
		product models.Product
		field   string
	}{
		{"missing name", models.Product{SKU: "K-1", Category: "katun"}, "name"},
		{"missing sku", models.Product{Name: "Katun", Category: "katun"}, "sku"},
		{"missing category", models.Product{Name: "Katun", SKU: "K-1"}, "category"},
		{"bad unit", models.Product{Name: "Katun", SKU: "K-1", Category: "katun", Unit: "kg"}, "unit"},
		{"negative price", models.Product{Name: "Katun", SKU: "K-1", Category: "katun", PriceIDR: -1}, "price_idr"},
		{"negative stock", models.Product{Name: "Katun", SKU: "K-1", Category: "katun", Stock: -3}, "stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.product
			err := s.Create(ctx, &p)
			ve, ok := apperr.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCatalogCreateNormalizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductStore(ctrl)
	s := NewCatalogService(store, newTestCache(t), testLog)

	store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *models.Product) error {
			assert.Equal(t, "KTN-001", p.SKU)
			assert.Equal(t, "katun", p.Category)
			assert.Equal(t, models.UnitMeter, p.Unit)
			return nil
		})

	p := &models.Product{Name: " Katun Jepang ", SKU: " ktn-001", Category: "Katun", PriceIDR: 45000, RatingCount: 9}
	require.NoError(t, s.Create(context.Background(), p))
	assert.Equal(t, int64(0), p.RatingCount)
}

func TestCatalogGetUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductStore(ctrl)
	s := NewCatalogService(store, newTestCache(t), testLog)
	ctx := context.Background()

	p := fabric("KTN-001", 45000, 10)
	store.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil).Times(1)

	got, err := s.Get(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, p.SKU, got.SKU)

	got, err = s.Get(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, p.SKU, got.SKU)

	// tras invalidar se vuelve a leer del store
	s.InvalidateProduct(ctx, p.ID)
	p.IsActive = false
	store.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil).Times(1)

	_, err = s.Get(ctx, p.ID, true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err = s.Get(ctx, p.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCatalogListCachesPublicOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductStore(ctrl)
	s := NewCatalogService(store, newTestCache(t), testLog)
	ctx := context.Background()

	products := []*models.Product{fabric("A", 1000, 1), fabric("B", 2000, 2)}
	store.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(products, int64(2), nil).Times(1)

	q := models.ProductQuery{PublicOnly: true, Category: "katun"}
	page, err := s.List(ctx, q)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 20, page.PageSize)

	page, err = s.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	store.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(products, int64(2), nil).Times(2)
	admin := models.ProductQuery{Category: "katun"}
	_, err = s.List(ctx, admin)
	require.NoError(t, err)
	_, err = s.List(ctx, admin)
	require.NoError(t, err)
}

func TestCatalogUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductStore(ctrl)
	s := NewCatalogService(store, newTestCache(t), testLog)
	ctx := context.Background()
	id := primitive.NewObjectID()

	_, err := s.Update(ctx, id, models.ProductUpdate{})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	negative := int64(-5)
	_, err = s.Update(ctx, id, models.ProductUpdate{PriceIDR: &negative})
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)

	price, active := int64(52000), false
	store.EXPECT().Update(gomock.Any(), id, map[string]interface{}{"price_idr": price, "is_active": active}).Return(nil)
	store.EXPECT().FindByID(gomock.Any(), id).Return(&models.Product{ID: id, PriceIDR: price}, nil)

	got, err := s.Update(ctx, id, models.ProductUpdate{PriceIDR: &price, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, price, got.PriceIDR)
}

func TestCatalogDeleteNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductStore(ctrl)
	s := NewCatalogService(store, newTestCache(t), testLog)
	id := primitive.NewObjectID()

	store.EXPECT().SoftDelete(gomock.Any(), id).Return(apperr.ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), id), apperr.ErrNotFound)
}

func TestCatalogCategoriesCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockProductStore(ctrl)
	s := NewCatalogService(store, newTestCache(t), testLog)
	ctx := context.Background()

	store.EXPECT().Categories(gomock.Any()).Return([]string{"batik", "katun"}, nil).Times(1)
	for i := 0; i < 2; i++ {
		got, err := s.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"batik", "katun"}, got)
	}
}
