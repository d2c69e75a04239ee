package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/config"
)

// NewRedisClient creates a new Redis client and verifies connectivity
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// AnalysisCache caches few-shot analyses by input text. The external LLM
// round trip is the expensive part; the cached value is the serialized
// upstream analysis, never a request-scoped result object.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalysisCache creates a cache over an existing Redis client
func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// Get returns the cached analysis for text, or nil on miss or any cache error
func (c *AnalysisCache) Get(ctx context.Context, text string) *entity.FewShotAnalysis {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, cacheKey(text)).Bytes()
	if err != nil {
		return nil
	}

	var analysis entity.FewShotAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil
	}
	return &analysis
}

// Set stores an analysis. Error-tagged analyses are never cached: a missing
// credential or transient upstream failure must not stick.
func (c *AnalysisCache) Set(ctx context.Context, text string, analysis *entity.FewShotAnalysis) {
	if c == nil || c.client == nil || analysis == nil || analysis.Error != "" {
		return
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(text), data, c.ttl)
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "fewshot:" + hex.EncodeToString(sum[:])
}
