// Package cache keeps the last confirmed upstream snapshots in Redis so a
// restarted instance can serve a warm local view before its first refetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/config"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

const (
	postsKey    = "snapshot:posts"
	productsKey = "snapshot:products"
	ordersKey   = "snapshot:orders"

	defaultTTL = 5 * time.Minute
)

// SnapshotCache stores canonical domain lists keyed by domain.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSnapshotCache(cfg config.RedisConfig, logger *zap.Logger) *SnapshotCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("snapshot-cache"),
	}
}

func (c *SnapshotCache) Close() error { return c.client.Close() }

// SetPosts stores the canonical post list.
func (c *SnapshotCache) SetPosts(ctx context.Context, posts []models.Post) error {
	return c.set(ctx, postsKey, posts)
}

// GetPosts retrieves the cached canonical post list; (nil, nil) on miss.
func (c *SnapshotCache) GetPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	ok, err := c.get(ctx, postsKey, &posts)
	if err != nil || !ok {
		return nil, err
	}
	return posts, nil
}

// SetProducts stores the canonical product list.
func (c *SnapshotCache) SetProducts(ctx context.Context, products []models.Product) error {
	return c.set(ctx, productsKey, products)
}

// GetProducts retrieves the cached canonical product list; (nil, nil) on miss.
func (c *SnapshotCache) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	ok, err := c.get(ctx, productsKey, &products)
	if err != nil || !ok {
		return nil, err
	}
	return products, nil
}

// SetOrders stores the canonical order list.
func (c *SnapshotCache) SetOrders(ctx context.Context, orders []models.Order) error {
	return c.set(ctx, ordersKey, orders)
}

// GetOrders retrieves the cached canonical order list; (nil, nil) on miss.
func (c *SnapshotCache) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	ok, err := c.get(ctx, ordersKey, &orders)
	if err != nil || !ok {
		return nil, err
	}
	return orders, nil
}

func (c *SnapshotCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (c *SnapshotCache) get(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("cache miss", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		c.logger.Error("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}
