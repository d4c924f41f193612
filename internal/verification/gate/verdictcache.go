package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	platformredis "sello/internal/platform/redis"
	"sello/internal/verification"
)

// VerdictCache stores the latest verdict per profile so GetVerdict polls
// cheaply without replaying the pipeline.
type VerdictCache interface {
	Put(ctx context.Context, profileID uuid.UUID, verdict verification.Verdict) error
	Get(ctx context.Context, profileID uuid.UUID) (verification.Verdict, bool, error)
}

// MemoryVerdictCache backs single-instance deployments and tests.
type MemoryVerdictCache struct {
	mu       sync.RWMutex
	verdicts map[uuid.UUID]verification.Verdict
}

func NewMemoryVerdictCache() *MemoryVerdictCache {
	return &MemoryVerdictCache{verdicts: make(map[uuid.UUID]verification.Verdict)}
}

func (c *MemoryVerdictCache) Put(_ context.Context, profileID uuid.UUID, verdict verification.Verdict) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts[profileID] = verdict
	return nil
}

func (c *MemoryVerdictCache) Get(_ context.Context, profileID uuid.UUID) (verification.Verdict, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	verdict, ok := c.verdicts[profileID]
	return verdict, ok, nil
}

// RedisVerdictCache shares verdicts across instances with a TTL; the profile
// row remains the durable record.
type RedisVerdictCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

func NewRedisVerdictCache(client *platformredis.Client, ttl time.Duration) *RedisVerdictCache {
	return &RedisVerdictCache{client: client, ttl: ttl}
}

func (c *RedisVerdictCache) key(profileID uuid.UUID) string {
	return "sello:verification:verdict:" + profileID.String()
}

func (c *RedisVerdictCache) Put(ctx context.Context, profileID uuid.UUID, verdict verification.Verdict) error {
	raw, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	if err := c.client.Set(ctx, c.key(profileID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache verdict: %w", err)
	}
	return nil
}

func (c *RedisVerdictCache) Get(ctx context.Context, profileID uuid.UUID) (verification.Verdict, bool, error) {
	raw, err := c.client.Get(ctx, c.key(profileID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return verification.Verdict{}, false, nil
	}
	if err != nil {
		return verification.Verdict{}, false, fmt.Errorf("read cached verdict: %w", err)
	}
	var verdict verification.Verdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return verification.Verdict{}, false, fmt.Errorf("decode cached verdict: %w", err)
	}
	return verdict, true, nil
}
