// internal/rag/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"contractor-rag/internal/models"
)

// ScoreCache keeps recently computed score components in Redis so batch
// reads and ranking refreshes don't recompute unchanged contractors.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{client: client, ttl: ttl}
}

func scoreKey(contractorID string) string {
	return "rag:score:" + contractorID
}

// Get returns the cached components for a contractor, or nil on miss or
// decode failure. Cache errors are never fatal to a scoring pass.
func (c *ScoreCache) Get(ctx context.Context, contractorID string) *models.RAGScoreComponents {
	val, err := c.client.Get(ctx, scoreKey(contractorID)).Result()
	if err != nil {
		return nil
	}

	var components models.RAGScoreComponents
	if err := json.Unmarshal([]byte(val), &components); err != nil {
		return nil
	}
	return &components
}

// Set stores the components with the configured TTL, best effort.
func (c *ScoreCache) Set(ctx context.Context, components *models.RAGScoreComponents) {
	data, err := json.Marshal(components)
	if err != nil {
		return
	}
	c.client.Set(ctx, scoreKey(components.ContractorID), data, c.ttl)
}

// Invalidate drops the cached entry after any category write.
func (c *ScoreCache) Invalidate(ctx context.Context, contractorID string) {
	c.client.Del(ctx, scoreKey(contractorID))
}
