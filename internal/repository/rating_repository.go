package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"textile-store/internal/models"
)

type RatingRepository struct {
	collection *mongo.Collection
}

func NewRatingRepository(collection *mongo.Collection) *RatingRepository {
	return &RatingRepository{collection: collection}
}

// Create guarda la calificación; el índice único (user, product, order) evita duplicados
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, rating)
	return wrap("insert rating", err)
}

func (r *RatingRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID, page, pageSize int) ([]*models.Rating, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"product_id": productID}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrap("count ratings", err)
	}

	opts := pageOptions(page, pageSize).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrap("list ratings", err)
	}
	defer cursor.Close(ctx)

	ratings := make([]*models.Rating, 0)
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, 0, wrap("decode ratings", err)
	}
	return ratings, total, nil
}
