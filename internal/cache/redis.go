package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"task-service/internal/config"
	"task-service/internal/models"
	"task-service/pkg/logger"
)

const keyPrefix = "task:"

// TaskCache stores single tasks in Redis keyed by id.
type TaskCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewClient parses REDIS_URL, applies the pool size and pings the server.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// New returns a cache over client. Entries expire after ttl.
func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *TaskCache {
	return &TaskCache{client: client, ttl: ttl, log: log}
}

// Key returns the cache key for a single task.
func Key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get reads a task from Redis. Returns (nil, false) on miss or error.
func (c *TaskCache) Get(ctx context.Context, id uuid.UUID) (*models.Task, bool) {
	b, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Debug(ctx, "Redis get task failed", "error", err, "id", id)
		return nil, false
	}
	var t models.Task
	if err := json.Unmarshal(b, &t); err != nil {
		c.log.Debug(ctx, "Redis unmarshal task failed", "error", err, "id", id)
		return nil, false
	}
	return &t, true
}

// Set writes a task to Redis with the configured TTL.
func (c *TaskCache) Set(ctx context.Context, t *models.Task) {
	b, err := json.Marshal(t)
	if err != nil {
		c.log.Debug(ctx, "Marshal task for cache failed", "error", err, "id", t.ID)
		return
	}
	if err := c.client.Set(ctx, Key(t.ID), b, c.ttl).Err(); err != nil {
		c.log.Debug(ctx, "Redis set task failed", "error", err, "id", t.ID)
	}
}

// Invalidate deletes the cached task so the next read goes to the database.
func (c *TaskCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		c.log.Debug(ctx, "Redis invalidate task failed", "error", err, "id", id)
	}
}

// Ping checks the Redis connection.
func (c *TaskCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
