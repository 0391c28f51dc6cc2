// Package app conecta configuración, almacenamiento y servicios; lo usan
// tanto el servidor HTTP como storectl.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"textile-store/internal/cache"
	"textile-store/internal/config"
	"textile-store/internal/database"
	"textile-store/internal/events"
	"textile-store/internal/permission"
	"textile-store/internal/repository"
	"textile-store/internal/routes"
	"textile-store/internal/service"
)

const (
	connectTimeout = 10 * time.Second
	cacheTTL       = 5 * time.Minute
	cacheCleanup   = time.Minute
)

// App mantiene las conexiones abiertas y los servicios construidos
type App struct {
	Services routes.Services

	client    *mongo.Client
	cache     cache.Cache
	publisher events.Publisher
	log       *zap.Logger
}

// New conecta MongoDB, el caché y el publicador de eventos
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := database.Connect(connectCtx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info("connected to mongodb", zap.String("database", cfg.MongoDB))

	c, err := newCache(connectCtx, cfg, log)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	publisher := newPublisher(cfg, log)

	products := repository.NewProductRepository(db.Collection(database.Products))
	orders := repository.NewOrderRepository(db.Collection(database.Orders))
	carts := repository.NewCartRepository(db.Collection(database.Carts))
	materials := repository.NewMaterialRepository(
		db.Collection(database.PurchasedMaterials),
		db.Collection(database.UsedMaterials),
		db.Collection(database.MaterialStock),
	)
	pricing := service.Pricing{ShippingFee: cfg.ShippingFlatFee, FreeShippingMin: cfg.FreeShippingMin}

	catalog := service.NewCatalogService(products, c, log)
	services := routes.Services{
		Auth: service.NewAuthService(
			repository.NewUserRepository(db.Collection(database.Users)),
			repository.NewSessionRepository(db.Collection(database.Sessions)),
			c, cfg.SessionTTL, log,
		),
		Catalog:   catalog,
		Cart:      service.NewCartService(carts, products, pricing, log),
		Orders:    service.NewOrderService(orders, products, carts, catalog, publisher, pricing, log),
		Ratings:   service.NewRatingService(repository.NewRatingRepository(db.Collection(database.Ratings)), orders, products, catalog, log),
		Inventory: service.NewInventoryService(products, catalog, cfg.LowStockThreshold, log),
		Materials: service.NewMaterialService(materials, log),
		Reports:   service.NewReportService(orders, products, cfg.LowStockThreshold, log),
		Bus:       permission.NewBus(),
	}

	return &App{
		Services:  services,
		client:    client,
		cache:     c,
		publisher: publisher,
		log:       log,
	}, nil
}

func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 50})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		log.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
		return cache.NewRedis(rdb, "textile:", cacheTTL), nil
	case "memory", "":
		log.Info("using in-memory cache")
		return cache.NewMemory(cacheTTL, cacheCleanup), nil
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
}

func newPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("no kafka brokers configured, order events are only logged")
		return events.NewLogPublisher(log)
	}
	log.Info("publishing order events to kafka",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaOrderTopic),
	)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
}

// Close libera publicador, caché y conexión a MongoDB
func (a *App) Close(ctx context.Context) {
	if err := a.publisher.Close(); err != nil {
		a.log.Warn("close event publisher", zap.Error(err))
	}
	if err := a.cache.Close(); err != nil {
		a.log.Warn("close cache", zap.Error(err))
	}
	if err := a.client.Disconnect(ctx); err != nil {
		a.log.Warn("disconnect mongodb", zap.Error(err))
	}
}
