// Package cache keeps ranked search results in redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
)

const (
	DefaultTTL    = 30 * time.Minute
	defaultPrefix = "jobs:search"
)

// store is the subset of redis.Cmdable the cache needs.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// JobCache implements jobs.Cache.
type JobCache struct {
	rdb    store
	ttl    time.Duration
	prefix string
}

type Option func(*JobCache)

func WithPrefix(prefix string) Option {
	return func(c *JobCache) {
		if prefix = strings.Trim(prefix, ":"); prefix != "" {
			c.prefix = prefix
		}
	}
}

func New(rdb store, ttl time.Duration, opts ...Option) *JobCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &JobCache{rdb: rdb, ttl: ttl, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Key is stable for queries that differ only in case or surrounding spaces.
func (c *JobCache) Key(q jobs.SearchQuery) string {
	raw := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(q.Query)),
		strings.ToLower(strings.TrimSpace(q.Location)),
		strconv.Itoa(q.ResultsWanted),
	}, "\x00")
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%x", c.prefix, sum[:16])
}

func (c *JobCache) Get(ctx context.Context, q jobs.SearchQuery) ([]jobs.Job, bool, error) {
	data, err := c.rdb.Get(ctx, c.Key(q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached search: %w", err)
	}

	var batch []jobs.Job
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, false, fmt.Errorf("decode cached search: %w", err)
	}
	return batch, true, nil
}

func (c *JobCache) Set(ctx context.Context, q jobs.SearchQuery, batch []jobs.Job) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode search: %w", err)
	}
	if err := c.rdb.Set(ctx, c.Key(q), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached search: %w", err)
	}
	return nil
}
