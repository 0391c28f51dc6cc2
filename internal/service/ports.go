package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"textile-store/internal/models"
)

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks textile-store/internal/service ProductStore,CartStore,OrderStore,RatingStore

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
	FindAll(ctx context.Context, q models.ProductQuery) ([]*models.Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	Categories(ctx context.Context) ([]string, error)
	// AdjustStock suma delta sin dejar el stock negativo (ErrInsufficientStock)
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int64) (*models.Product, error)
	SetStock(ctx context.Context, id primitive.ObjectID, value int64) error
	LowStock(ctx context.Context, threshold int64, limit int64) ([]*models.Product, error)
	AddRating(ctx context.Context, id primitive.ObjectID, stars int) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
	CountLowStock(ctx context.Context, threshold int64) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	List(ctx context.Context, page, pageSize int) ([]*models.User, int64, error)
	UpsertAdmin(ctx context.Context, email, name, passwordHash string) error
}

type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	Find(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) ([]string, error)
}

type CartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, q models.OrderQuery) ([]*models.Order, int64, error)
	// UpdateStatus aplica el cambio solo si el pedido sigue en from (ErrConflict si no)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (*models.Order, error)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error)
}

type RatingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
	ListByProduct(ctx context.Context, productID primitive.ObjectID, page, pageSize int) ([]*models.Rating, int64, error)
}

type MaterialStore interface {
	CreatePurchase(ctx context.Context, m *models.PurchasedMaterial) error
	CreateUsage(ctx context.Context, m *models.UsedMaterial) error
	ListPurchases(ctx context.Context, nameKey string, page, pageSize int) ([]*models.PurchasedMaterial, int64, error)
	ListUsages(ctx context.Context, nameKey string, page, pageSize int) ([]*models.UsedMaterial, int64, error)
	AllPurchases(ctx context.Context, nameKey string) ([]*models.PurchasedMaterial, error)
	AllUsages(ctx context.Context, nameKey string) ([]*models.UsedMaterial, error)
	DeletePurchase(ctx context.Context, id primitive.ObjectID) error
	DeleteUsage(ctx context.Context, id primitive.ObjectID) error
	ReplaceStock(ctx context.Context, rows []models.MaterialStock) error
	StockTable(ctx context.Context) ([]models.MaterialStock, error)
}

// ProductInvalidator borra las lecturas cacheadas de un producto
type ProductInvalidator interface {
	InvalidateProduct(ctx context.Context, id primitive.ObjectID)
}
