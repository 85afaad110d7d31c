package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyperjump/sentaku/pkg/utils"
)

const redisKeyPrefix = "sentaku:emb:"

// RedisCache stores embeddings in Redis as little-endian float32 bytes (see utils.EncodeFloat32s).
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache returns a cache over client. A ttl of zero keeps entries until evicted by Redis.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisCacheFromAddr dials addr and pings it.
func NewRedisCacheFromAddr(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisCache(client, ttl), nil
}

// RedisKey returns the key for a model id and text.
func RedisKey(modelID, text string) string {
	sum := sha256.Sum256([]byte(text))
	return redisKeyPrefix + modelID + ":" + hex.EncodeToString(sum[:])
}

// Get returns the vector for (modelID, text); ok is false on a miss.
func (r *RedisCache) Get(ctx context.Context, modelID, text string) ([]float32, bool, error) {
	b, err := r.client.Get(ctx, RedisKey(modelID, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	vec, err := utils.DecodeFloat32s(b)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Set stores vec for (modelID, text).
func (r *RedisCache) Set(ctx context.Context, modelID, text string, vec []float32) error {
	return r.client.Set(ctx, RedisKey(modelID, text), utils.EncodeFloat32s(vec), r.ttl).Err()
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

