package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizza_store/internal/models"

	"github.com/go-redis/redis/v8"
)

const menuKey = "menu:products"

// MenuCache keeps the full catalog projection in Redis so the menu
// endpoint does not hit the database on every request. Order reads are
// never cached.
type MenuCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, ttl time.Duration) (*MenuCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &MenuCache{rdb: rdb, ttl: ttl}, nil
}

// GetMenu returns the cached catalog and whether it was present.
func (c *MenuCache) GetMenu(ctx context.Context) ([]models.Product, bool, error) {
	val, err := c.rdb.Get(ctx, menuKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get menu: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal menu: %w", err)
	}
	return products, true, nil
}

func (c *MenuCache) SetMenu(ctx context.Context, products []models.Product) error {
	jsonData, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	return c.rdb.Set(ctx, menuKey, jsonData, c.ttl).Err()
}

// Invalidate drops the cached menu; called after any catalog write.
func (c *MenuCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, menuKey).Err()
}

// Close Redis connection
func (c *MenuCache) Close() error {
	return c.rdb.Close()
}
