package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProduct struct {
	ID    string `json:"id"`
	Stock int64  `json:"stock"`
}

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "product:1", cachedProduct{ID: "1", Stock: 7}, 0))

	var got cachedProduct
	found, err := c.Get(ctx, "product:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), got.Stock)

	found, err = c.Get(ctx, "product:2", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_Expiration(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var v int
	found, err := c.Get(ctx, "short", &v)
	require.NoError(t, err)
	assert.False(t, found)

	c.purge(time.Now().UnixNano())
	assert.Equal(t, 0, c.Size())
}

func TestMemory_DeleteByPrefix(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	defer c.Close()
	ctx := context.Background()

	for _, k := range []string{"products:list:a", "products:list:b", "product:1"} {
		require.NoError(t, c.Set(ctx, k, k, 0))
	}

	require.NoError(t, c.DeleteByPrefix(ctx, "products:list:"))
	assert.Equal(t, 1, c.Size())

	require.NoError(t, c.Delete(ctx, "product:1"))
	assert.Equal(t, 0, c.Size())
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	c := NewMemory(time.Minute, time.Millisecond)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
