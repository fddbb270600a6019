package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"delivery-mitra-service/internal/domain"
)

// RedisTrafficCache is a short-TTL cache for traffic provider responses,
// keyed by coordinates rounded to 4 decimal places (~11 m). Entries expire
// on their own; nothing is ever invalidated explicitly.
type RedisTrafficCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTrafficCache(client *redis.Client, ttl time.Duration) *RedisTrafficCache {
	return &RedisTrafficCache{client: client, ttl: ttl}
}

func congestionKey(origin domain.Coordinates) string {
	return fmt.Sprintf("traffic:congestion:%.4f:%.4f", origin.Lat, origin.Lon)
}

func etdKey(origin, destination domain.Coordinates) string {
	return fmt.Sprintf("traffic:etd:%.4f:%.4f:%.4f:%.4f",
		origin.Lat, origin.Lon, destination.Lat, destination.Lon)
}

func (c *RedisTrafficCache) GetCongestion(ctx context.Context, origin domain.Coordinates) (int, bool, error) {
	return c.getInt(ctx, congestionKey(origin))
}

func (c *RedisTrafficCache) PutCongestion(ctx context.Context, origin domain.Coordinates, score int) error {
	return c.putInt(ctx, congestionKey(origin), score)
}

func (c *RedisTrafficCache) GetEtd(ctx context.Context, origin, destination domain.Coordinates) (int, bool, error) {
	return c.getInt(ctx, etdKey(origin, destination))
}

func (c *RedisTrafficCache) PutEtd(ctx context.Context, origin, destination domain.Coordinates, minutes int) error {
	return c.putInt(ctx, etdKey(origin, destination), minutes)
}

func (c *RedisTrafficCache) getInt(ctx context.Context, key string) (int, bool, error) {
	if c.client == nil {
		return 0, false, errors.New("traffic cache: client is nil")
	}

	val, err := c.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("traffic cache get %q: %w", key, err)
	}
	return val, true, nil
}

func (c *RedisTrafficCache) putInt(ctx context.Context, key string, val int) error {
	if c.client == nil {
		return errors.New("traffic cache: client is nil")
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("traffic cache set %q: %w", key, err)
	}
	return nil
}
