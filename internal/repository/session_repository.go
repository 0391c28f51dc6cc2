package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"textile-store/internal/models"
)

// SessionRepository guarda sesiones; el índice TTL sobre expires_at las purga
type SessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(collection *mongo.Collection) *SessionRepository {
	return &SessionRepository{collection: collection}
}

func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, s)
	return wrap("insert session", err)
}

func (r *SessionRepository) Find(ctx context.Context, tokenHash string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var s models.Session
	if err := r.collection.FindOne(ctx, bson.M{"_id": tokenHash}).Decode(&s); err != nil {
		return nil, wrap("find session", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": tokenHash})
	return wrap("delete session", err)
}

// DeleteByUser cierra todas las sesiones de un usuario y devuelve los hashes
// borrados para poder sacarlos del caché
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, wrap("find user sessions", err)
	}
	var rows []struct {
		Hash string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrap("decode user sessions", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	hashes := make([]string, len(rows))
	for i, row := range rows {
		hashes[i] = row.Hash
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": hashes}}); err != nil {
		return nil, wrap("delete user sessions", err)
	}
	return hashes, nil
}
