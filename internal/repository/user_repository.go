package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) *UserRepository {
	return &UserRepository{collection: collection}
}

// Create guarda un usuario nuevo; el email se normaliza en minúsculas
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return wrap("insert user", err)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var user models.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, wrap("find user by email", err)
	}
	return &user, nil
}

// Update aplica $set sobre los campos indicados
func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		update[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return wrap("update user", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update user: %w", apperr.ErrNotFound)
	}
	return nil
}

// List pagina usuarios, los más recientes primero
func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]*models.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, wrap("count users", err)
	}

	opts := pageOptions(page, pageSize).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, wrap("list users", err)
	}
	defer cursor.Close(ctx)

	users := make([]*models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, wrap("decode users", err)
	}
	return users, total, nil
}

// UpsertAdmin crea o promueve la cuenta de administrador inicial
func (r *UserRepository) UpsertAdmin(ctx context.Context, email, name, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"email": strings.ToLower(strings.TrimSpace(email))},
		bson.M{
			"$set": bson.M{
				"role":          models.RoleAdmin,
				"password_hash": passwordHash,
				"updated_at":    now,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"name":       name,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return wrap("upsert admin", err)
}
