package gate

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sello/internal/provider/models"
	"sello/internal/verification"
	"sello/pkg/platform/audit"
)

// Start launches n workers draining the run queue until ctx is cancelled.
// It blocks until all workers have stopped.
func (g *Gate) Start(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case profileID := <-g.queue:
					g.runVerification(ctx, profileID)
				}
			}
		}()
	}
	wg.Wait()
}

// runVerification executes one queued run end to end. A failed run logs and
// leaves the previously persisted state untouched; the profile stays pending
// and can be re-triggered.
func (g *Gate) runVerification(ctx context.Context, profileID uuid.UUID) {
	acquired, err := g.locks.TryAcquire(ctx, profileID)
	if err != nil {
		g.logError(ctx, "run lock unavailable", profileID, err)
		return
	}
	if !acquired {
		// A run for this profile is already in flight.
		return
	}
	defer func() {
		if err := g.locks.Release(ctx, profileID); err != nil {
			g.logError(ctx, "run lock release failed", profileID, err)
		}
	}()

	profile, err := g.profiles.FindByID(ctx, profileID)
	if err != nil {
		g.logError(ctx, "load profile", profileID, err)
		return
	}

	if profile.Status == models.StatusResubmitted {
		if err := profile.TransitionTo(models.StatusPending, g.now()); err != nil {
			g.logError(ctx, "promote to pending", profileID, err)
			return
		}
	}
	if profile.Status != models.StatusPending {
		g.logError(ctx, "profile not pending, dropping run", profileID, nil)
		return
	}

	anchor, err := g.services.FirstAvailable(ctx, profileID)
	if err != nil {
		g.logError(ctx, "load anchor service", profileID, err)
		return
	}

	verdict := g.orchestrator.Run(ctx, profile, anchor)

	next := models.StatusRejected
	if verdict.Approved {
		next = models.StatusApproved
	}
	profile.RejectionReasons = verdict.Rejections
	if err := profile.TransitionTo(next, verdict.CompletedAt); err != nil {
		g.logError(ctx, "apply verdict transition", profileID, err)
		return
	}
	if err := g.profiles.Save(ctx, profile); err != nil {
		g.logError(ctx, "persist verdict", profileID, err)
		return
	}

	if err := g.verdicts.Put(ctx, profileID, verdict); err != nil {
		g.logError(ctx, "cache verdict", profileID, err)
	}

	g.publishOutcome(ctx, profile, verdict)

	if g.logger != nil {
		g.logger.InfoContext(ctx, "verification run completed",
			"profile_id", profileID,
			"approved", verdict.Approved,
			"rejections", len(verdict.Rejections),
			"warnings", len(verdict.Warnings),
			"alerts", len(verdict.Alerts),
		)
	}
}

func (g *Gate) publishOutcome(ctx context.Context, profile *models.ProviderProfile, verdict verification.Verdict) {
	if g.publisher == nil {
		return
	}

	decision := "rejected"
	reason := ""
	if verdict.Approved {
		decision = "approved"
	} else if len(verdict.Rejections) > 0 {
		reason = verdict.Rejections[0].Code
	}
	_ = g.publisher.Emit(ctx, audit.Event{
		Category:  audit.EventVerificationCompleted.Category(),
		ProfileID: profile.ID,
		Action:    string(audit.EventVerificationCompleted),
		Decision:  decision,
		Reason:    reason,
		Severity:  audit.SeverityInfo,
	})
	_ = g.publisher.Emit(ctx, audit.Event{
		Category:  audit.EventProfileStateChanged.Category(),
		ProfileID: profile.ID,
		Action:    string(audit.EventProfileStateChanged),
		Decision:  string(profile.Status),
		Severity:  audit.SeverityInfo,
	})
	for _, alert := range verdict.Alerts {
		_ = g.publisher.Emit(ctx, audit.Event{
			Category:  audit.EventSecurityAlertRaised.Category(),
			ProfileID: profile.ID,
			Action:    string(audit.EventSecurityAlertRaised),
			Reason:    alert.Category,
			Severity:  alert.Severity,
			Evidence:  alert.Evidence,
		})
	}
}

func (g *Gate) logError(ctx context.Context, msg string, profileID uuid.UUID, err error) {
	if g.logger == nil {
		return
	}
	g.logger.ErrorContext(ctx, msg, "profile_id", profileID, "error", err)
}
