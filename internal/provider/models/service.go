package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a provider's listed offering. The verification pipeline reads
// it, never writes it; the first available service (earliest CreatedAt)
// anchors the Coherence phase.
type Service struct {
	ID          uuid.UUID
	ProviderID  uuid.UUID
	Name        string
	Description string
	Category    string
	Image       ImageRef
	Available   bool
	CreatedAt   time.Time
}
