package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"bookly/backend/internal/extraction"
)

type RedisExtractionCache struct {
	client *redis.Client
}

func NewRedisExtractionCache(addr string, password string, db int) *RedisExtractionCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisExtractionCache{client: client}
}

func (c *RedisExtractionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisExtractionCache) Close() error {
	return c.client.Close()
}

func (c *RedisExtractionCache) Get(ctx context.Context, key string) (*extraction.Payload, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var payload extraction.Payload
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return nil, false, err
	}
	return &payload, true, nil
}

func (c *RedisExtractionCache) Set(ctx context.Context, key string, value *extraction.Payload, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
