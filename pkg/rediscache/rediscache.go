package rediscache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/python-discord/sir-robin-go/pkg/config"
)

// ErrNotFound is returned when a key is not present in a cache.
var ErrNotFound = errors.New("key not found in cache")

// Client wraps a Redis connection and owns the embedded server when
// running in fakeredis mode.
type Client struct {
	rdb  *redis.Client
	mini *miniredis.Miniredis
}

// NewClient connects to Redis. With useFake set it boots an embedded
// miniredis instead, which is what CI and local development use.
func NewClient(cfg config.Redis, useFake bool) (*Client, error) {
	if useFake {
		mini, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded redis: %w", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: mini.Addr()})
		return &Client{rdb: rdb, mini: mini}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
	})
	return &Client{rdb: rdb}, nil
}

// Ping verifies the connection is usable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection and stops the embedded server if any.
func (c *Client) Close() error {
	err := c.rdb.Close()
	if c.mini != nil {
		c.mini.Close()
	}
	return err
}

// Cache is a namespaced hash in Redis. Each cache lives under its own
// key so namespaces cannot collide.
type Cache struct {
	client    *Client
	namespace string
}

// NewCache returns a cache bound to the given namespace.
func NewCache(client *Client, namespace string) *Cache {
	return &Cache{client: client, namespace: namespace}
}

// Namespace returns the cache's namespace.
func (c *Cache) Namespace() string {
	return c.namespace
}

// Get fetches the value for a key. Returns ErrNotFound when absent.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.rdb.HGet(ctx, c.namespace, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

// GetInt fetches an integer value for a key.
func (c *Cache) GetInt(ctx context.Context, key string) (int64, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// GetBool fetches a boolean value for a key.
func (c *Cache) GetBool(ctx context.Context, key string) (bool, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(val)
}

// Set stores a value under a key.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	return c.client.rdb.HSet(ctx, c.namespace, key, fmt.Sprint(value)).Err()
}

// Update stores multiple key/value pairs at once.
func (c *Cache) Update(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	flat := make([]any, 0, len(values)*2)
	for k, v := range values {
		flat = append(flat, k, fmt.Sprint(v))
	}
	return c.client.rdb.HSet(ctx, c.namespace, flat...).Err()
}

// Delete removes a key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.rdb.HDel(ctx, c.namespace, key).Err()
}

// Contains reports whether a key exists in the cache.
func (c *Cache) Contains(ctx context.Context, key string) (bool, error) {
	return c.client.rdb.HExists(ctx, c.namespace, key).Result()
}

// Items returns the full contents of the cache.
func (c *Cache) Items(ctx context.Context) (map[string]string, error) {
	return c.client.rdb.HGetAll(ctx, c.namespace).Result()
}

// Length returns the number of keys in the cache.
func (c *Cache) Length(ctx context.Context) (int64, error) {
	return c.client.rdb.HLen(ctx, c.namespace).Result()
}

// Increment adds amount to an integer value, creating it when absent.
func (c *Cache) Increment(ctx context.Context, key string, amount int64) (int64, error) {
	return c.client.rdb.HIncrBy(ctx, c.namespace, key, amount).Result()
}

// Clear removes the whole cache.
func (c *Cache) Clear(ctx context.Context) error {
	return c.client.rdb.Del(ctx, c.namespace).Err()
}

// Expire sets a TTL on the whole cache.
func (c *Cache) Expire(ctx context.Context, ttl time.Duration) error {
	return c.client.rdb.Expire(ctx, c.namespace, ttl).Err()
}
