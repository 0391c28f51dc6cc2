package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

// MaterialRepository maneja el libro de materia prima del almacén:
// compras, usos y la tabla de stock derivada.
type MaterialRepository struct {
	purchases *mongo.Collection
	usages    *mongo.Collection
	stock     *mongo.Collection
}

func NewMaterialRepository(purchases, usages, stock *mongo.Collection) *MaterialRepository {
	return &MaterialRepository{purchases: purchases, usages: usages, stock: stock}
}

func (r *MaterialRepository) CreatePurchase(ctx context.Context, m *models.PurchasedMaterial) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	_, err := r.purchases.InsertOne(ctx, m)
	return wrap("insert purchase", err)
}

func (r *MaterialRepository) CreateUsage(ctx context.Context, m *models.UsedMaterial) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	_, err := r.usages.InsertOne(ctx, m)
	return wrap("insert usage", err)
}

func (r *MaterialRepository) ListPurchases(ctx context.Context, nameKey string, page, pageSize int) ([]*models.PurchasedMaterial, int64, error) {
	out := make([]*models.PurchasedMaterial, 0)
	total, err := listPage(ctx, r.purchases, nameFilter(nameKey), "purchased_at", page, pageSize, &out)
	return out, total, err
}

func (r *MaterialRepository) ListUsages(ctx context.Context, nameKey string, page, pageSize int) ([]*models.UsedMaterial, int64, error) {
	out := make([]*models.UsedMaterial, 0)
	total, err := listPage(ctx, r.usages, nameFilter(nameKey), "used_at", page, pageSize, &out)
	return out, total, err
}

// AllPurchases devuelve todas las compras; nameKey vacío no filtra
func (r *MaterialRepository) AllPurchases(ctx context.Context, nameKey string) ([]*models.PurchasedMaterial, error) {
	out := make([]*models.PurchasedMaterial, 0)
	if err := findAll(ctx, r.purchases, nameFilter(nameKey), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllUsages devuelve todos los usos; nameKey vacío no filtra
func (r *MaterialRepository) AllUsages(ctx context.Context, nameKey string) ([]*models.UsedMaterial, error) {
	out := make([]*models.UsedMaterial, 0)
	if err := findAll(ctx, r.usages, nameFilter(nameKey), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MaterialRepository) DeletePurchase(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.purchases, id, "delete purchase")
}

func (r *MaterialRepository) DeleteUsage(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.usages, id, "delete usage")
}

// ReplaceStock reemplaza la tabla de stock derivada por las filas dadas
func (r *MaterialRepository) ReplaceStock(ctx context.Context, rows []models.MaterialStock) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.stock.DeleteMany(ctx, bson.M{}); err != nil {
		return wrap("clear material stock", err)
	}
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, len(rows))
	for i := range rows {
		docs[i] = rows[i]
	}
	_, err := r.stock.InsertMany(ctx, docs)
	return wrap("insert material stock", err)
}

// StockTable lee la última tabla conciliada, ordenada por nombre y unidad
func (r *MaterialRepository) StockTable(ctx context.Context) ([]models.MaterialStock, error) {
	out := make([]models.MaterialStock, 0)
	opts := options.Find().SetSort(bson.D{{Key: "name_key", Value: 1}, {Key: "unit", Value: 1}})

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.stock.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("find material stock", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, wrap("decode material stock", err)
	}
	return out, nil
}

func nameFilter(nameKey string) bson.M {
	if nameKey == "" {
		return bson.M{}
	}
	return bson.M{"name_key": nameKey}
}

func listPage(ctx context.Context, coll *mongo.Collection, filter bson.M, dateField string, page, pageSize int, out interface{}) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, wrap("count "+coll.Name(), err)
	}

	opts := pageOptions(page, pageSize).SetSort(bson.D{{Key: dateField, Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, wrap("list "+coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return 0, wrap("decode "+coll.Name(), err)
	}
	return total, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return wrap("find "+coll.Name(), err)
	}
	defer cursor.Close(ctx)
	return wrap("decode "+coll.Name(), cursor.All(ctx, out))
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, op string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(op, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}
