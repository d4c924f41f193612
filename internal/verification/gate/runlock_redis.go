package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	platformredis "sello/internal/platform/redis"
)

// RedisRunLock is a best-effort lease keeping two service instances from
// running the same profile at once. The TTL bounds how long a crashed worker
// can keep a profile locked.
type RedisRunLock struct {
	client *platformredis.Client
	ttl    time.Duration
}

func NewRedisRunLock(client *platformredis.Client, ttl time.Duration) *RedisRunLock {
	return &RedisRunLock{client: client, ttl: ttl}
}

func (l *RedisRunLock) key(profileID uuid.UUID) string {
	return "sello:verification:runlock:" + profileID.String()
}

func (l *RedisRunLock) TryAcquire(ctx context.Context, profileID uuid.UUID) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(profileID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lease: %w", err)
	}
	return ok, nil
}

func (l *RedisRunLock) Release(ctx context.Context, profileID uuid.UUID) error {
	if err := l.client.Del(ctx, l.key(profileID)).Err(); err != nil {
		return fmt.Errorf("release run lease: %w", err)
	}
	return nil
}
