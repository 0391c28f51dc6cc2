package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

func getTestDB(t *testing.T) *mongo.Database {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	db := client.Database(fmt.Sprintf("textileStore_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("op", nil))
	assert.True(t, errors.Is(wrap("op", mongo.ErrNoDocuments), apperr.ErrNotFound))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "dup"}}}
	assert.True(t, errors.Is(wrap("op", dup), apperr.ErrConflict))
}

func TestParseID(t *testing.T) {
	_, err := ParseID("nope")
	assert.ErrorIs(t, err, apperr.ErrInvalidID)

	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestNormalizePage(t *testing.T) {
	p, s := normalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, defaultPageSize, s)

	p, s = normalizePage(3, 500)
	assert.Equal(t, 3, p)
	assert.Equal(t, defaultPageSize, s)
}

func TestProductFilter(t *testing.T) {
	active := false
	f := productFilter(models.ProductQuery{
		Search:   "batik (tulis)",
		Category: "batik",
		MinPrice: 10000,
		Active:   &active,
	})

	assert.Equal(t, false, f["is_deleted"])
	assert.Equal(t, "batik", f["category"])
	assert.Equal(t, false, f["is_active"])
	assert.Equal(t, bson.M{"$gte": int64(10000)}, f["price_idr"])

	or := f["$or"].([]bson.M)
	require.Len(t, or, 4)
	assert.Equal(t, `batik \(tulis\)`, or[0]["name"].(bson.M)["$regex"])

	public := productFilter(models.ProductQuery{PublicOnly: true, Active: &active})
	assert.Equal(t, true, public["is_active"])
}

func TestProductSort(t *testing.T) {
	sort := productSort([]models.SortField{{Field: "price_idr", Desc: true}, {Field: "password"}})
	assert.Equal(t, bson.D{{Key: "price_idr", Value: -1}, {Key: "_id", Value: 1}}, sort)

	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}, productSort(nil))
}

func newTestProduct(sku string, stock int64) *models.Product {
	return &models.Product{
		SKU:      sku,
		Name:     "Kain Katun " + sku,
		Category: "katun",
		Unit:     models.UnitMeter,
		PriceIDR: 35000,
		Stock:    stock,
		IsActive: true,
	}
}

func TestProductRepository_CRUD(t *testing.T) {
	db := getTestDB(t)
	repo := NewProductRepository(db.Collection("products"))
	ctx := context.Background()

	p := newTestProduct("KTN-001", 10)
	require.NoError(t, repo.Create(ctx, p))
	require.False(t, p.ID.IsZero())

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "KTN-001", got.SKU)

	require.NoError(t, repo.Update(ctx, p.ID, map[string]interface{}{"price_idr": int64(40000)}))
	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), got.PriceIDR)

	list, total, err := repo.FindAll(ctx, models.ProductQuery{Page: 1, PageSize: 10, Category: "katun"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, repo.SoftDelete(ctx, p.ID))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, p.ID), apperr.ErrNotFound)
}

func TestProductRepository_AdjustStock(t *testing.T) {
	db := getTestDB(t)
	repo := NewProductRepository(db.Collection("products"))
	ctx := context.Background()

	p := newTestProduct("KTN-002", 5)
	require.NoError(t, repo.Create(ctx, p))

	updated, err := repo.AdjustStock(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Stock)

	_, err = repo.AdjustStock(ctx, p.ID, -3)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	updated, err = repo.AdjustStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), updated.Stock)

	_, err = repo.AdjustStock(ctx, primitive.NewObjectID(), -1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductRepository_AddRating(t *testing.T) {
	db := getTestDB(t)
	repo := NewProductRepository(db.Collection("products"))
	ctx := context.Background()

	p := newTestProduct("KTN-003", 5)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.AddRating(ctx, p.ID, 5))
	require.NoError(t, repo.AddRating(ctx, p.ID, 2))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.RatingCount)
	assert.InDelta(t, 3.5, got.RatingAvg, 0.0001)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db := getTestDB(t)
	repo := NewOrderRepository(db.Collection("orders"))
	ctx := context.Background()

	order := &models.Order{Number: "INV/TEST/1", UserID: primitive.NewObjectID(), Status: models.OrderStatusPending, Total: 50000}
	require.NoError(t, repo.Create(ctx, order))

	change := models.StatusChange{Status: models.OrderStatusPaid, At: time.Now(), By: "admin"}
	updated, err := repo.UpdateStatus(ctx, order.ID, models.OrderStatusPending, change)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
	assert.Len(t, updated.StatusHistory, 1)

	// el estado ya cambió: conflicto
	_, err = repo.UpdateStatus(ctx, order.ID, models.OrderStatusPending, change)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = repo.UpdateStatus(ctx, primitive.NewObjectID(), models.OrderStatusPending, change)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCartRepository_GetSaveClear(t *testing.T) {
	db := getTestDB(t)
	repo := NewCartRepository(db.Collection("carts"))
	ctx := context.Background()
	userID := primitive.NewObjectID()

	cart, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart.Items = append(cart.Items, models.CartItem{ProductID: primitive.NewObjectID(), Quantity: 2})
	require.NoError(t, repo.Save(ctx, cart))

	cart, err = repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	require.NoError(t, repo.Clear(ctx, userID))
	cart, err = repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMaterialRepository_StockTable(t *testing.T) {
	db := getTestDB(t)
	repo := NewMaterialRepository(db.Collection("purchased_materials"), db.Collection("used_materials"), db.Collection("material_stock"))
	ctx := context.Background()

	require.NoError(t, repo.CreatePurchase(ctx, &models.PurchasedMaterial{Name: "Katun", NameKey: "katun", Quantity: "50 meter"}))
	require.NoError(t, repo.CreateUsage(ctx, &models.UsedMaterial{Name: "Katun", NameKey: "katun", Quantity: "10 meter"}))

	purchases, err := repo.AllPurchases(ctx, "katun")
	require.NoError(t, err)
	assert.Len(t, purchases, 1)

	rows := []models.MaterialStock{
		{Name: "Sutra", NameKey: "sutra", Unit: "meter", Available: "1"},
		{Name: "Katun", NameKey: "katun", Unit: "meter", Available: "40"},
	}
	require.NoError(t, repo.ReplaceStock(ctx, rows))
	require.NoError(t, repo.ReplaceStock(ctx, rows))

	table, err := repo.StockTable(ctx)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "katun", table[0].NameKey)

	assert.ErrorIs(t, repo.DeleteUsage(ctx, primitive.NewObjectID()), apperr.ErrNotFound)
}

func TestSessionRepository_DeleteByUser(t *testing.T) {
	db := getTestDB(t)
	repo := NewSessionRepository(db.Collection("sessions"))
	ctx := context.Background()
	userID, other := primitive.NewObjectID(), primitive.NewObjectID()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, &models.Session{TokenHash: "a", UserID: userID, ExpiresAt: exp}))
	require.NoError(t, repo.Create(ctx, &models.Session{TokenHash: "b", UserID: userID, ExpiresAt: exp}))
	require.NoError(t, repo.Create(ctx, &models.Session{TokenHash: "c", UserID: other, ExpiresAt: exp}))

	hashes, err := repo.DeleteByUser(ctx, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, hashes)

	_, err = repo.Find(ctx, "a")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = repo.Find(ctx, "c")
	assert.NoError(t, err)

	hashes, err = repo.DeleteByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, hashes)
}
