// Package cache holds the category tree cache used by the category endpoints.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marketplace-admin/catalog"
	"marketplace-admin/metrics"
)

// CategoryTreeTTL bounds staleness when an invalidation is missed.
const CategoryTreeTTL = 30 * time.Minute

const keyPrefix = "categories:tree:"

// TreeCache stores built category trees under a variant key such as "all"
// or "active".
type TreeCache interface {
	GetTree(ctx context.Context, variant string) ([]*catalog.TreeNode, bool)
	SetTree(ctx context.Context, variant string, tree []*catalog.TreeNode)
	Invalidate(ctx context.Context)
}

// RedisTreeCache keeps trees as JSON in Redis. Redis failures degrade to a
// cache miss and are only logged.
type RedisTreeCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisTreeCache(client *redis.Client, logger *zap.Logger) *RedisTreeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisTreeCache{client: client, ttl: CategoryTreeTTL, log: logger}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *RedisTreeCache) GetTree(ctx context.Context, variant string) ([]*catalog.TreeNode, bool) {
	val, err := c.client.Get(ctx, keyPrefix+variant).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("category tree cache read failed", zap.String("variant", variant), zap.Error(err))
		}
		metrics.RecordCacheLookup(false)
		return nil, false
	}

	var tree []*catalog.TreeNode
	if err := json.Unmarshal(val, &tree); err != nil {
		c.log.Warn("category tree cache entry corrupt", zap.String("variant", variant), zap.Error(err))
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	metrics.RecordCacheLookup(true)
	return tree, true
}

func (c *RedisTreeCache) SetTree(ctx context.Context, variant string, tree []*catalog.TreeNode) {
	data, err := json.Marshal(tree)
	if err != nil {
		c.log.Warn("category tree not cacheable", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+variant, data, c.ttl).Err(); err != nil {
		c.log.Warn("category tree cache write failed", zap.String("variant", variant), zap.Error(err))
	}
}

func (c *RedisTreeCache) Invalidate(ctx context.Context) {
	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("category tree cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("category tree cache invalidation failed", zap.Error(err))
	}
}

// NoopCache never hits. Used when REDIS_URL is unset.
type NoopCache struct{}

func (NoopCache) GetTree(context.Context, string) ([]*catalog.TreeNode, bool) { return nil, false }
func (NoopCache) SetTree(context.Context, string, []*catalog.TreeNode)        {}
func (NoopCache) Invalidate(context.Context)                                  {}

// MemoryCache is an in-process TreeCache for tests and single-instance runs.
type MemoryCache struct {
	mu    sync.RWMutex
	trees map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{trees: map[string][]byte{}}
}

func (m *MemoryCache) GetTree(_ context.Context, variant string) ([]*catalog.TreeNode, bool) {
	m.mu.RLock()
	data, ok := m.trees[variant]
	m.mu.RUnlock()
	if !ok {
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	var tree []*catalog.TreeNode
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false
	}
	metrics.RecordCacheLookup(true)
	return tree, true
}

func (m *MemoryCache) SetTree(_ context.Context, variant string, tree []*catalog.TreeNode) {
	data, err := json.Marshal(tree)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.trees[variant] = data
	m.mu.Unlock()
}

func (m *MemoryCache) Invalidate(context.Context) {
	m.mu.Lock()
	m.trees = map[string][]byte{}
	m.mu.Unlock()
}
