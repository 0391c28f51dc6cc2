package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Env               string
	Port              string
	MongoURI          string
	MongoDB           string
	DefaultLocale     string
	SessionTTL        time.Duration
	LowStockThreshold int64
	ShippingFlatFee   int64
	FreeShippingMin   int64
	CacheBackend      string
	RedisAddr         string
	KafkaBrokers      []string
	KafkaOrderTopic   string
	AdminEmail        string
	AdminPassword     string
}

// IsProduction indica si corre con APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig lee la configuración del entorno. Solo carga .env en desarrollo
// local; en producción el archivo no existe y se ignora.
func LoadConfig(log *zap.Logger) *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn("error loading .env file", zap.Error(err))
		} else {
			log.Info(".env file loaded")
		}
	} else {
		log.Info("using system environment variables")
	}

	return &Config{
		Env:               getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDB:           getEnv("MONGO_DB", "textileStore"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "id"),
		SessionTTL:        getDuration(log, "SESSION_TTL", 72*time.Hour),
		LowStockThreshold: getInt(log, "LOW_STOCK_THRESHOLD", 5),
		ShippingFlatFee:   getInt(log, "SHIPPING_FLAT_FEE", 15000),
		FreeShippingMin:   getInt(log, "FREE_SHIPPING_MIN", 500000),
		CacheBackend:      getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:      getList("KAFKA_BROKERS"),
		KafkaOrderTopic:   getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(log *zap.Logger, key string, fallback int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		log.Warn("invalid integer, using default", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return v
}

func getDuration(log *zap.Logger, key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Warn("invalid duration, using default", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return v
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
