package store

import (
	"context"

	"github.com/google/uuid"

	"sello/internal/provider/models"
)

// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory or PostgreSQL persistence without rewiring business code.

// ProfileStore persists provider profiles and their verification state.
type ProfileStore interface {
	Save(ctx context.Context, profile *models.ProviderProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProviderProfile, error)
}

// ServiceStore reads the provider's listed services. The pipeline never
// mutates services.
type ServiceStore interface {
	Save(ctx context.Context, service *models.Service) error
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Service, error)
	// FirstAvailable returns the provider's earliest-created available
	// service, the anchor for the Coherence phase.
	FirstAvailable(ctx context.Context, providerID uuid.UUID) (*models.Service, error)
}
