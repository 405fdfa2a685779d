package rates

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores the latest rate table for a limited time.
type Cache interface {
	Get(ctx context.Context) (Table, bool, error)
	Set(ctx context.Context, table Table, ttl time.Duration) error
}

// MemoryCache keeps one table per process.
type MemoryCache struct {
	mu      sync.RWMutex
	table   Table
	expires time.Time
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

func (c *MemoryCache) Get(context.Context) (Table, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.table.Rates == nil || !c.now().Before(c.expires) {
		return Table{}, false, nil
	}
	return c.table, true, nil
}

func (c *MemoryCache) Set(_ context.Context, table Table, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table
	c.expires = c.now().Add(ttl)
	return nil
}

const redisKey = "rentprice:rates:latest"

// RedisCache shares the table between replicas.
type RedisCache struct {
	client *redis.Client
	key    string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, key: redisKey}
}

func (c *RedisCache) Get(ctx context.Context) (Table, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Table{}, false, nil
		}
		return Table{}, false, err
	}
	var table Table
	if err := json.Unmarshal(raw, &table); err != nil {
		return Table{}, false, err
	}
	return table, true, nil
}

func (c *RedisCache) Set(ctx context.Context, table Table, ttl time.Duration) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, raw, ttl).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
