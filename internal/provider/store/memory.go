package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"sello/internal/provider/models"
	"sello/pkg/platform/sentinel"
)

// In-memory stores keep the initial implementation lightweight and testable.
// They intentionally favor clarity over performance.

type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]models.ProviderProfile
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[uuid.UUID]models.ProviderProfile)}
}

func (s *InMemoryProfileStore) Save(_ context.Context, profile *models.ProviderProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *InMemoryProfileStore) FindByID(_ context.Context, id uuid.UUID) (*models.ProviderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[id]; ok {
		copied := profile
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

type InMemoryServiceStore struct {
	mu       sync.RWMutex
	services map[uuid.UUID][]models.Service
}

func NewInMemoryServiceStore() *InMemoryServiceStore {
	return &InMemoryServiceStore{services: make(map[uuid.UUID][]models.Service)}
}

func (s *InMemoryServiceStore) Save(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[service.ProviderID] = append(s.services[service.ProviderID], *service)
	return nil
}

func (s *InMemoryServiceStore) ListByProvider(_ context.Context, providerID uuid.UUID) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listed := make([]models.Service, len(s.services[providerID]))
	copy(listed, s.services[providerID])
	sort.Slice(listed, func(i, j int) bool { return listed[i].CreatedAt.Before(listed[j].CreatedAt) })
	return listed, nil
}

func (s *InMemoryServiceStore) FirstAvailable(ctx context.Context, providerID uuid.UUID) (*models.Service, error) {
	listed, err := s.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	for i := range listed {
		if listed[i].Available {
			return &listed[i], nil
		}
	}
	return nil, sentinel.ErrNotFound
}
