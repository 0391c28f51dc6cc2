package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"APP_ENV", "PORT", "MONGO_DB", "SESSION_TTL", "LOW_STOCK_THRESHOLD", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "8080")

	cfg := LoadConfig(zap.NewNop())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(5), cfg.LowStockThreshold)
	assert.Equal(t, int64(15000), cfg.ShippingFlatFee)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LOW_STOCK_THRESHOLD", "12")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("MONGO_DB", "tokoKain")

	cfg := LoadConfig(zap.NewNop())

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(12), cfg.LowStockThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "tokoKain", cfg.MongoDB)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("SHIPPING_FLAT_FEE", "-1")

	cfg := LoadConfig(zap.NewNop())

	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(15000), cfg.ShippingFlatFee)
}
