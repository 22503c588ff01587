package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares results between instances. Keys never expire.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(id string) string {
	return c.prefix + id
}

func (c *RedisCache) Get(ctx context.Context, id string) (model.EvaluationResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.EvaluationResult{}, false, nil
	}
	if err != nil {
		return model.EvaluationResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var result model.EvaluationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.EvaluationResult{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return result, true, nil
}

func (c *RedisCache) Set(ctx context.Context, id string, result model.EvaluationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, c.key(id), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
