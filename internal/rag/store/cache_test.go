// internal/rag/store/cache_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractor-rag/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func setupCache(t *testing.T, ttl time.Duration) (*ScoreCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewScoreCache(client, ttl), mr
}

func testComponents(contractorID string) *models.RAGScoreComponents {
	return &models.RAGScoreComponents{
		ContractorID:     contractorID,
		PerformanceScore: 82,
		FinancialScore:   75,
		ComplianceScore:  90,
		SafetyScore:      68,
		OverallScore:     79.1,
		OverallCategory:  models.CategoryAmber,
		Source:           models.ScoreSourceComputed,
		CalculatedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ==========================
// Cache Round-Trip Tests
// ==========================

func TestScoreCache_SetGet(t *testing.T) {
	cache, mr := setupCache(t, 10*time.Minute)
	ctx := context.Background()

	cache.Set(ctx, testComponents("c-1"))
	got := cache.Get(ctx, "c-1")

	require.NotNil(t, got)
	assert.Equal(t, "c-1", got.ContractorID)
	assert.Equal(t, 79.1, got.OverallScore)
	assert.Equal(t, models.CategoryAmber, got.OverallCategory)

	assert.Equal(t, 10*time.Minute, mr.TTL("rag:score:c-1"))
}

func TestScoreCache_MissReturnsNil(t *testing.T) {
	cache, _ := setupCache(t, time.Minute)
	assert.Nil(t, cache.Get(context.Background(), "c-unknown"))
}

func TestScoreCache_Invalidate(t *testing.T) {
	cache, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, testComponents("c-1"))
	cache.Invalidate(ctx, "c-1")

	assert.Nil(t, cache.Get(ctx, "c-1"))
	assert.False(t, mr.Exists("rag:score:c-1"))
}

func TestScoreCache_CorruptEntryReturnsNil(t *testing.T) {
	cache, mr := setupCache(t, time.Minute)

	require.NoError(t, mr.Set("rag:score:c-1", "not-json"))
	assert.Nil(t, cache.Get(context.Background(), "c-1"))
}

func TestScoreCache_RedisErrorIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewScoreCache(client, time.Minute)

	mock.ExpectGet("rag:score:c-1").SetErr(errors.New("connection refused"))

	assert.Nil(t, cache.Get(context.Background(), "c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
