package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisGeocodeCache keeps search results in Redis as JSON with an expiry.
type RedisGeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl}
}

func (c *RedisGeocodeCache) Get(
	ctx context.Context,
	key string,
) (_ []domain.AddressCandidate, _ bool, err error) {
	defer obs.Time(ctx, "geocode.redis.Get")(&err)

	raw, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	var out []domain.AddressCandidate
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode candidates: %w", err)
	}
	return out, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, key string, candidates []domain.AddressCandidate) error {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode candidates: %w", err)
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert geocode cache: redis set: %w", err)
	}
	return nil
}
