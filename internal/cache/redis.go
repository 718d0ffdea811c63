// Package cache is a JSON cache over Redis. A nil *Redis, or one created
// without an address, is a valid cache that always misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores JSON values with a TTL.
type Redis struct {
	client *redis.Client
}

// Connect creates a Redis cache and verifies it with a ping. An empty addr
// returns a disabled cache and no error.
func Connect(ctx context.Context, addr, password string) (*Redis, error) {
	if addr == "" {
		return &Redis{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return &Redis{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Enabled reports whether lookups can ever hit.
func (r *Redis) Enabled() bool {
	return r != nil && r.client != nil
}

// GetJSON loads key into dest. It returns false on a miss.
func (r *Redis) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key for ttl.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if !r.Enabled() || len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
