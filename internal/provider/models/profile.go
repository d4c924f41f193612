package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sello/pkg/platform/sentinel"
)

// Status is the approval lifecycle state of a provider profile.
type Status string

const (
	StatusCreated     Status = "created"
	StatusPending     Status = "pending"
	StatusResubmitted Status = "resubmitted"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// allowedTransitions encodes the lifecycle invariants: only
// created/resubmitted/pending may move into pending, and only
// pending/resubmitted may receive a verdict.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusCreated:     true,
		StatusResubmitted: true,
		StatusPending:     true,
	},
	StatusApproved: {
		StatusPending:     true,
		StatusResubmitted: true,
	},
	StatusRejected: {
		StatusPending:     true,
		StatusResubmitted: true,
	},
	StatusResubmitted: {
		StatusRejected: true,
	},
}

// CanTransition reports whether from → to is a legal lifecycle move.
func CanTransition(from, to Status) bool {
	return allowedTransitions[to][from]
}

// RejectionReason is one coded, user-facing reason a run rejected a profile.
// The message is safe to display verbatim.
type RejectionReason struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProviderProfile is the subject under verification.
type ProviderProfile struct {
	ID        uuid.UUID
	AccountID uuid.UUID

	DisplayName  string
	BusinessName string
	Description  string
	Category     string
	ProfilePhoto ImageRef

	IDCardFront  ImageRef
	IDCardBack   ImageRef
	SelfieWithID ImageRef

	// Fields below are written only by the Documents phase.
	ExtractedSurnames   string
	ExtractedGivenNames string
	ExtractedIDNumber   string
	ExtractedExpiry     *time.Time
	FaceMatchScore      float64

	Status               Status
	VerificationAttempts int
	RejectedAt           *time.Time
	ResubmittedAt        *time.Time
	VerifiedAt           *time.Time

	// RejectionReasons holds the latest run's failures, overwritten on every
	// run and cleared on approval. Never appended across runs.
	RejectionReasons []RejectionReason

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProviderProfile returns a profile in the created state with no documents.
func NewProviderProfile(accountID uuid.UUID, displayName string) *ProviderProfile {
	now := time.Now()
	return &ProviderProfile{
		ID:        uuid.New(),
		AccountID: accountID,

		DisplayName: displayName,
		Status:      StatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TransitionTo moves the profile to the next lifecycle state, enforcing the
// transition invariants and maintaining the associated timestamps.
func (p *ProviderProfile) TransitionTo(next Status, now time.Time) error {
	if !CanTransition(p.Status, next) {
		return fmt.Errorf("transition %s -> %s: %w", p.Status, next, sentinel.ErrInvalidState)
	}
	p.Status = next
	p.UpdatedAt = now
	switch next {
	case StatusRejected:
		p.RejectedAt = &now
	case StatusApproved:
		p.VerifiedAt = &now
	}
	return nil
}

// BeginResubmission moves a rejected profile into resubmitted, enforcing the
// cooldown window and the lifetime attempt cap. Attempts increment only here.
func (p *ProviderProfile) BeginResubmission(now time.Time, cooldown time.Duration, maxAttempts int) error {
	if p.Status != StatusRejected {
		return fmt.Errorf("resubmit from %s: %w", p.Status, sentinel.ErrInvalidState)
	}
	if p.VerificationAttempts >= maxAttempts {
		return sentinel.ErrAttemptsExhausted
	}
	if p.RejectedAt != nil {
		if elapsed := now.Sub(*p.RejectedAt); elapsed < cooldown {
			return fmt.Errorf("%s remaining: %w", cooldownRemaining(cooldown-elapsed), sentinel.ErrCooldownActive)
		}
	}
	if err := p.TransitionTo(StatusResubmitted, now); err != nil {
		return err
	}
	p.VerificationAttempts++
	p.ResubmittedAt = &now
	return nil
}

// cooldownRemaining renders the remaining wait as whole minutes, never less
// than one, matching the message providers see.
func cooldownRemaining(remaining time.Duration) string {
	minutes := int(remaining.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%dm", minutes)
}

// HasDocuments reports whether both ID card sides have been uploaded.
func (p *ProviderProfile) HasDocuments() bool {
	return !p.IDCardFront.IsZero() && !p.IDCardBack.IsZero()
}

// EligibleForVerification reports whether the profile's state allows a
// verification run to start.
func (p *ProviderProfile) EligibleForVerification() bool {
	switch p.Status {
	case StatusCreated, StatusResubmitted, StatusPending:
		return true
	}
	return false
}
