// Package cache provides the two-level analysis cache: an in-process LRU
// front backed by Redis. Identical symptom descriptions within the TTL
// window reuse the stored analysis instead of re-running the pipeline.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sehha-plus/triage-server/internal/domain"
)

// AnalysisCache caches synthesized analyses keyed by a digest of the
// normalized symptom text. Redis is optional: when unreachable at startup
// the cache degrades to the local LRU only.
type AnalysisCache struct {
	redis      *redis.Client
	local      *lru.Cache[string, *cachedAnalysis]
	defaultTTL time.Duration
	logger     *logrus.Logger
}

type cachedAnalysis struct {
	Analysis  *domain.TriageAnalysis `json:"analysis"`
	CachedAt  time.Time              `json:"cached_at"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// New creates the analysis cache. A Redis connection failure is logged
// and tolerated; a local-LRU allocation failure is not.
func New(cfg domain.CacheConfig, logger *logrus.Logger) (*AnalysisCache, error) {
	size := cfg.LocalSize
	if size <= 0 {
		size = 256
	}
	local, err := lru.New[string, *cachedAnalysis](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create local analysis cache: %w", err)
	}

	c := &AnalysisCache{
		local:      local,
		defaultTTL: cfg.DefaultTTL,
		logger:     logger,
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.PoolTimeout = cfg.PoolTimeout
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, analysis cache running local-only")
		client.Close()
	} else {
		c.redis = client
	}

	return c, nil
}

// Get returns the cached analysis for the normalized symptom text, or
// (nil, false) on a miss.
func (c *AnalysisCache) Get(ctx context.Context, normalizedText string) (*domain.TriageAnalysis, bool) {
	key := c.key(normalizedText)

	if cached, ok := c.local.Get(key); ok {
		if time.Now().Before(cached.ExpiresAt) {
			return cached.Analysis, true
		}
		c.local.Remove(key)
	}

	if c.redis == nil {
		return nil, false
	}

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("analysis cache read failed")
		return nil, false
	}

	var cached cachedAnalysis
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		c.redis.Del(ctx, key)
		return nil, false
	}
	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false
	}

	c.local.Add(key, &cached)
	return cached.Analysis, true
}

// Set stores the analysis in both tiers. ttl zero uses the configured
// default. Write failures are logged, never surfaced to the patient path.
func (c *AnalysisCache) Set(ctx context.Context, normalizedText string, analysis *domain.TriageAnalysis, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	key := c.key(normalizedText)
	cached := &cachedAnalysis{
		Analysis:  analysis,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	c.local.Add(key, cached)

	if c.redis == nil {
		return
	}
	data, err := json.Marshal(cached)
	if err != nil {
		c.logger.WithError(err).Warn("failed to marshal cached analysis")
		return
	}
	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("analysis cache write failed")
	}
}

// Ping reports Redis health for the readiness endpoint. Local-only mode
// returns an error so operators can tell the tiers apart.
func (c *AnalysisCache) Ping(ctx context.Context) error {
	if c.redis == nil {
		return fmt.Errorf("redis disabled, cache is local-only")
	}
	return c.redis.Ping(ctx).Err()
}

// Close closes the Redis connection if one is open.
func (c *AnalysisCache) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

func (c *AnalysisCache) key(normalizedText string) string {
	hash := sha256.Sum256([]byte(normalizedText))
	return fmt.Sprintf("analysis:symptoms:%x", hash[:16])
}
