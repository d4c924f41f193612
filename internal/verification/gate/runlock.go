package gate

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RunLock guards the at-most-one-concurrent-run-per-profile invariant.
// TryAcquire returns false when a run already holds the profile.
type RunLock interface {
	TryAcquire(ctx context.Context, profileID uuid.UUID) (bool, error)
	Release(ctx context.Context, profileID uuid.UUID) error
}

// KeyedLock is the in-process run lock. It is always active; the Redis lease
// stacks on top of it when the deployment runs more than one instance.
type KeyedLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{held: make(map[uuid.UUID]struct{})}
}

func (l *KeyedLock) TryAcquire(_ context.Context, profileID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[profileID]; taken {
		return false, nil
	}
	l.held[profileID] = struct{}{}
	return true, nil
}

func (l *KeyedLock) Release(_ context.Context, profileID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, profileID)
	return nil
}

// MultiLock acquires several locks in order and rolls back on a conflict, so
// a partially acquired profile is never left locked.
type MultiLock []RunLock

func (m MultiLock) TryAcquire(ctx context.Context, profileID uuid.UUID) (bool, error) {
	for i, lock := range m {
		ok, err := lock.TryAcquire(ctx, profileID)
		if err != nil || !ok {
			for j := i - 1; j >= 0; j-- {
				_ = m[j].Release(ctx, profileID)
			}
			return false, err
		}
	}
	return true, nil
}

func (m MultiLock) Release(ctx context.Context, profileID uuid.UUID) error {
	var firstErr error
	for j := len(m) - 1; j >= 0; j-- {
		if err := m[j].Release(ctx, profileID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
