// Package gate is the entry point for verification runs: it enforces the
// eligibility and retry rules, owns the profile's lifecycle transitions, and
// schedules the pipeline on background workers.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditsvc "sello/internal/audit"
	"sello/internal/platform/config"
	"sello/internal/provider/models"
	"sello/internal/provider/store"
	"sello/internal/verification"
	"sello/pkg/platform/audit"
	"sello/pkg/platform/sentinel"
)

// Gate coordinates verification runs for provider profiles.
type Gate struct {
	profiles store.ProfileStore
	services store.ServiceStore

	orchestrator *verification.Orchestrator
	publisher    *auditsvc.Publisher
	verdicts     VerdictCache
	locks        RunLock

	policy config.Policy
	queue  chan uuid.UUID
	logger *slog.Logger
	now    func() time.Time
}

// GateOption configures the Gate.
type GateOption func(*Gate)

func WithLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) { g.logger = logger }
}

// WithRunLock replaces the default in-process lock, typically with a
// MultiLock stacking a Redis lease on top of it.
func WithRunLock(lock RunLock) GateOption {
	return func(g *Gate) { g.locks = lock }
}

func WithVerdictCache(cache VerdictCache) GateOption {
	return func(g *Gate) { g.verdicts = cache }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithQueueSize bounds how many runs may wait for a worker.
func WithQueueSize(n int) GateOption {
	return func(g *Gate) { g.queue = make(chan uuid.UUID, n) }
}

func New(
	profiles store.ProfileStore,
	services store.ServiceStore,
	orchestrator *verification.Orchestrator,
	publisher *auditsvc.Publisher,
	policy config.Policy,
	opts ...GateOption,
) *Gate {
	g := &Gate{
		profiles:     profiles,
		services:     services,
		orchestrator: orchestrator,
		publisher:    publisher,
		verdicts:     NewMemoryVerdictCache(),
		locks:        NewKeyedLock(),
		policy:       policy,
		queue:        make(chan uuid.UUID, 64),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TriggerVerification checks eligibility, promotes the profile to pending,
// and enqueues a run. Eligible means: both ID images uploaded, at least one
// available service listed, and status in created/resubmitted/pending.
func (g *Gate) TriggerVerification(ctx context.Context, profileID uuid.UUID) error {
	profile, err := g.profiles.FindByID(ctx, profileID)
	if err != nil {
		return err
	}

	if !profile.HasDocuments() {
		return fmt.Errorf("id documents not uploaded: %w", sentinel.ErrInvalidState)
	}
	if _, err := g.services.FirstAvailable(ctx, profileID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return fmt.Errorf("no available service listed: %w", sentinel.ErrInvalidState)
		}
		return err
	}
	if !profile.EligibleForVerification() {
		return fmt.Errorf("status %s does not allow verification: %w", profile.Status, sentinel.ErrInvalidState)
	}

	if err := profile.TransitionTo(models.StatusPending, g.now()); err != nil {
		return err
	}
	if err := g.profiles.Save(ctx, profile); err != nil {
		return err
	}

	g.emit(ctx, audit.EventVerificationEnqueued, profileID, "", "")
	return g.enqueue(ctx, profileID)
}

// RequestReverification re-opens a rejected profile. Refused while the
// cooldown window is open and permanently refused once the attempt cap is
// reached. On success the profile moves to resubmitted and a run is queued.
func (g *Gate) RequestReverification(ctx context.Context, profileID uuid.UUID) error {
	profile, err := g.profiles.FindByID(ctx, profileID)
	if err != nil {
		return err
	}

	err = profile.BeginResubmission(g.now(), g.policy.ReverificationCooldown.Std(), g.policy.MaxVerificationAttempts)
	if err != nil {
		g.emit(ctx, audit.EventReverificationDenied, profileID, "denied", err.Error())
		return err
	}

	if err := g.profiles.Save(ctx, profile); err != nil {
		return err
	}

	g.emit(ctx, audit.EventVerificationEnqueued, profileID,
		fmt.Sprintf("attempt %d", profile.VerificationAttempts), "")
	return g.enqueue(ctx, profileID)
}

// GetVerdict returns the latest completed verdict. The boolean is false when
// no run has completed yet (or the cached verdict expired); the caller should
// report the profile's current status instead.
func (g *Gate) GetVerdict(ctx context.Context, profileID uuid.UUID) (verification.Verdict, bool, error) {
	if _, err := g.profiles.FindByID(ctx, profileID); err != nil {
		return verification.Verdict{}, false, err
	}
	return g.verdicts.Get(ctx, profileID)
}

// Status returns the profile's lifecycle state.
func (g *Gate) Status(ctx context.Context, profileID uuid.UUID) (models.Status, error) {
	profile, err := g.profiles.FindByID(ctx, profileID)
	if err != nil {
		return "", err
	}
	return profile.Status, nil
}

func (g *Gate) enqueue(ctx context.Context, profileID uuid.UUID) error {
	select {
	case g.queue <- profileID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("verification queue full: %w", sentinel.ErrUnavailable)
	}
}

func (g *Gate) emit(ctx context.Context, event audit.AuditEvent, profileID uuid.UUID, decision, reason string) {
	if g.publisher == nil {
		return
	}
	_ = g.publisher.Emit(ctx, audit.Event{
		Category:  event.Category(),
		ProfileID: profileID,
		Action:    string(event),
		Decision:  decision,
		Reason:    reason,
		Severity:  audit.SeverityInfo,
	})
}
