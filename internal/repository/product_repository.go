package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

// Campos por los que se permite ordenar el listado
var productSortFields = map[string]bool{
	"name":         true,
	"price_idr":    true,
	"stock":        true,
	"created_at":   true,
	"rating_avg":   true,
	"rating_count": true,
	"category":     true,
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{
		collection: collection,
	}
}

// Create crea un nuevo producto
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.IsDeleted = false

	_, err := r.collection.InsertOne(ctx, product)
	return wrap("insert product", err)
}

// FindByID obtiene un producto no eliminado por ID
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var product models.Product
	filter := bson.M{"_id": id, "is_deleted": false}
	if err := r.collection.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, wrap("find product", err)
	}
	return &product, nil
}

// FindByIDs obtiene varios productos de una vez, indexados por ID
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	out := make(map[primitive.ObjectID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "is_deleted": false})
	if err != nil {
		return nil, wrap("find products", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrap("decode products", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// FindAll lista productos con paginación y filtros
func (r *ProductRepository) FindAll(ctx context.Context, q models.ProductQuery) ([]*models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := productFilter(q)

	findOptions := pageOptions(q.Page, q.PageSize).SetSort(productSort(q.Sort))
	if q.Summary {
		findOptions.SetProjection(bson.M{
			"sku":          1,
			"name":         1,
			"name_en":      1,
			"category":     1,
			"unit":         1,
			"price_idr":    1,
			"stock":        1,
			"images":       bson.M{"$slice": 1},
			"is_active":    1,
			"rating_avg":   1,
			"rating_count": 1,
			"created_at":   1,
		})
	}

	// Conteo y búsqueda en paralelo
	g, gctx := errgroup.WithContext(ctx)

	var total int64
	g.Go(func() error {
		n, err := r.collection.CountDocuments(gctx, filter)
		total = n
		return err
	})

	products := make([]*models.Product, 0)
	g.Go(func() error {
		cursor, err := r.collection.Find(gctx, filter, findOptions)
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		return cursor.All(gctx, &products)
	})

	if err := g.Wait(); err != nil {
		return nil, 0, wrap("list products", err)
	}
	return products, total, nil
}

// productFilter construye el filtro de MongoDB a partir de la consulta
func productFilter(q models.ProductQuery) bson.M {
	filter := bson.M{"is_deleted": false}

	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"name_en": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
			{"category": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Material != "" {
		filter["material"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q.Material) + "$", "$options": "i"}
	}
	if q.Color != "" {
		filter["color"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q.Color) + "$", "$options": "i"}
	}

	if q.PublicOnly {
		filter["is_active"] = true
	} else if q.Active != nil {
		filter["is_active"] = *q.Active
	}

	price := bson.M{}
	if q.MinPrice > 0 {
		price["$gte"] = q.MinPrice
	}
	if q.MaxPrice > 0 {
		price["$lte"] = q.MaxPrice
	}
	if len(price) > 0 {
		filter["price_idr"] = price
	}
	return filter
}

// productSort traduce los campos pedidos ignorando los no permitidos
func productSort(fields []models.SortField) bson.D {
	sort := bson.D{}
	for _, f := range fields {
		if !productSortFields[f.Field] {
			continue
		}
		order := 1
		if f.Desc {
			order = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: order})
	}
	if len(sort) == 0 {
		sort = append(sort, bson.E{Key: "created_at", Value: -1})
	}
	// desempate estable para la paginación
	return append(sort, bson.E{Key: "_id", Value: 1})
}

// Update actualiza campos de un producto
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{}
	for k, v := range fields {
		update[k] = v
	}
	update["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": update},
	)
	if err != nil {
		return wrap("update product", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("update product: %w", apperr.ErrNotFound)
	}
	return nil
}

// SoftDelete marca un producto como eliminado
func (r *ProductRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{
			"is_deleted": true,
			"is_active":  false,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return wrap("delete product", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("delete product: %w", apperr.ErrNotFound)
	}
	return nil
}

// Categories devuelve las categorías con productos activos
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	values, err := r.collection.Distinct(ctx, "category", bson.M{"is_deleted": false, "is_active": true})
	if err != nil {
		return nil, wrap("distinct categories", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// AdjustStock suma delta al stock sin dejarlo negativo
func (r *ProductRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int64) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "is_deleted": false}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter,
		bson.M{
			"$inc": bson.M{"stock": delta},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)

	if err == mongo.ErrNoDocuments {
		// distinguir producto inexistente de stock insuficiente
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("adjust stock: %w", apperr.ErrInsufficientStock)
	}
	if err != nil {
		return nil, wrap("adjust stock", err)
	}
	return &product, nil
}

// SetStock fija el stock a un valor absoluto
func (r *ProductRepository) SetStock(ctx context.Context, id primitive.ObjectID, value int64) error {
	return r.Update(ctx, id, map[string]interface{}{"stock": value})
}

// LowStock lista productos activos con stock por debajo del umbral
func (r *ProductRepository) LowStock(ctx context.Context, threshold int64, limit int64) ([]*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "stock", Value: 1}, {Key: "name", Value: 1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{
		"is_deleted": false,
		"is_active":  true,
		"stock":      bson.M{"$lte": threshold},
	}, opts)
	if err != nil {
		return nil, wrap("low stock", err)
	}
	defer cursor.Close(ctx)

	products := make([]*models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrap("decode low stock", err)
	}
	return products, nil
}

// AddRating actualiza promedio y cantidad de calificaciones en una sola operación
func (r *ProductRepository) AddRating(ctx context.Context, id primitive.ObjectID, stars int) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	count := bson.M{"$ifNull": bson.A{"$rating_count", 0}}
	avg := bson.M{"$ifNull": bson.A{"$rating_avg", 0}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"rating_avg": bson.M{"$divide": bson.A{
				bson.M{"$add": bson.A{bson.M{"$multiply": bson.A{avg, count}}, stars}},
				bson.M{"$add": bson.A{count, 1}},
			}},
			"rating_count": bson.M{"$add": bson.A{count, 1}},
			"updated_at":   time.Now(),
		}}},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "is_deleted": false}, pipeline)
	if err != nil {
		return wrap("add rating", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("add rating: %w", apperr.ErrNotFound)
	}
	return nil
}

// Count cuenta productos no eliminados; activeOnly limita a los publicados
func (r *ProductRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{"is_deleted": false}
	if activeOnly {
		filter["is_active"] = true
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	return n, wrap("count products", err)
}

// CountLowStock cuenta productos activos con stock por debajo del umbral
func (r *ProductRepository) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{
		"is_deleted": false,
		"is_active":  true,
		"stock":      bson.M{"$lte": threshold},
	})
	return n, wrap("count low stock", err)
}
