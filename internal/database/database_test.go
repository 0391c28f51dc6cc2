package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_RequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestEnsureIndexes(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client, err := Connect(context.Background(), uri)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database("textileStore_test_indexes")
	defer db.Drop(context.Background())

	require.NoError(t, EnsureIndexes(context.Background(), db))
	// idempotente
	require.NoError(t, EnsureIndexes(context.Background(), db))
}
