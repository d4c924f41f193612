package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sello/pkg/platform/audit"
)

// Store is the audit event sink. Append-only so the trail stays tamper-evident.
type Store interface {
	Append(ctx context.Context, event audit.Event) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]audit.Event, error)
}

// InMemoryStore keeps events in process. It backs tests and single-instance
// deployments; Kafka fan-out (see kafka.go) covers everything else.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByProfile(_ context.Context, profileID uuid.UUID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	return out, nil
}
