package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Cache es el almacenamiento de lecturas calientes (productos, sesiones).
// Los valores se guardan serializados en JSON.
type Cache interface {
	Get(ctx context.Context, key string, target interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}

type item struct {
	value      []byte
	expiration int64
}

// Memory es un caché en memoria con expiración por clave
type Memory struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewMemory crea el caché y arranca la limpieza periódica de expirados
func NewMemory(defaultTTL, cleanupEvery time.Duration) *Memory {
	c := &Memory{
		items: make(map[string]item),
		ttl:   defaultTTL,
		stop:  make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go c.cleanupExpired(cleanupEvery)
	}
	return c
}

// Set guarda un valor en caché; ttl <= 0 usa el TTL por defecto
func (c *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:      data,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
	return nil
}

// Get obtiene y deserializa un valor del caché
func (c *Memory) Get(_ context.Context, key string, target interface{}) (bool, error) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()

	if !found || time.Now().UnixNano() > it.expiration {
		return false, nil
	}
	if err := json.Unmarshal(it.value, target); err != nil {
		return false, err
	}
	return true, nil
}

// Delete elimina claves del caché
func (c *Memory) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

// DeleteByPrefix elimina todas las claves que empiecen con un prefijo
func (c *Memory) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// Size retorna el número de items en caché, incluidos los expirados aún no limpiados
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close detiene la limpieza periódica
func (c *Memory) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *Memory) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purge(time.Now().UnixNano())
		}
	}
}

func (c *Memory) purge(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}
