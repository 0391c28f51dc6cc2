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

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(collection *mongo.Collection) *OrderRepository {
	return &OrderRepository{collection: collection}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, order)
	return wrap("insert order", err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, wrap("find order", err)
	}
	return &order, nil
}

// List pagina pedidos con filtros de usuario, estado y fecha
func (r *OrderRepository) List(ctx context.Context, q models.OrderQuery) ([]*models.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if q.UserID != nil {
		filter["user_id"] = *q.UserID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if created := createdRange(q.From, q.To); len(created) > 0 {
		filter["created_at"] = created
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrap("count orders", err)
	}

	opts := pageOptions(q.Page, q.PageSize).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrap("list orders", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, wrap("decode orders", err)
	}
	return orders, total, nil
}

// UpdateStatus cambia el estado solo si el pedido sigue en el estado from
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{
			"$set":  bson.M{"status": change.Status, "updated_at": change.At},
			"$push": bson.M{"status_history": change},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)

	if err == mongo.ErrNoDocuments {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("update order status: %w", apperr.ErrConflict)
	}
	if err != nil {
		return nil, wrap("update order status", err)
	}
	return &order, nil
}

// FindCreatedBetween devuelve todos los pedidos creados en [from, to)
func (r *OrderRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if created := createdRange(from, to); len(created) > 0 {
		filter["created_at"] = created
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, wrap("find orders in range", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrap("decode orders", err)
	}
	return orders, nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	return n, wrap("count orders", err)
}

func createdRange(from, to time.Time) bson.M {
	rng := bson.M{}
	if !from.IsZero() {
		rng["$gte"] = from
	}
	if !to.IsZero() {
		rng["$lt"] = to
	}
	return rng
}
