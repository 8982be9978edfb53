package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/quizard/internal/config"
)

// Cache holds fully loaded quizzes keyed by id. Misses and cache failures
// both fall back to the database.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*Quiz, bool)
	Set(ctx context.Context, q *Quiz)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func cacheKey(id uuid.UUID) string {
	return "quiz:" + id.String()
}

func (c *redisCache) Get(ctx context.Context, id uuid.UUID) (*Quiz, bool) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			config.WithContext(ctx).WithError(err).Warn("Quiz cache read failed")
		}
		return nil, false
	}

	var q Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Discarding unreadable cached quiz")
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &q, true
}

func (c *redisCache) Set(ctx context.Context, q *Quiz) {
	raw, err := json.Marshal(q)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Quiz cannot be cached")
		return
	}
	if err := c.client.Set(ctx, cacheKey(q.ID), raw, c.ttl).Err(); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Quiz cache write failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Quiz cache invalidation failed")
	}
}

type nopCache struct{}

// NopCache is used when no Redis address is configured.
func NopCache() Cache { return nopCache{} }

func (nopCache) Get(context.Context, uuid.UUID) (*Quiz, bool) { return nil, false }
func (nopCache) Set(context.Context, *Quiz)                   {}
func (nopCache) Invalidate(context.Context, uuid.UUID)        {}
