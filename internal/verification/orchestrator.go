package verification

import (
	"context"
	"log/slog"
	"time"

	"sello/internal/platform/config"
	"sello/internal/provider/models"
	"sello/internal/verification/metrics"
	"sello/internal/verification/ports"
)

// Collaborators bundles the external scorers the pipeline calls.
type Collaborators struct {
	OCR       ports.TextExtractor
	Analyzer  ports.ImageAnalyzer
	Faces     ports.FaceComparer
	Moderator ports.ImageModerator
	Fetcher   ports.ImageFetcher
}

// Orchestrator runs the verification phases in order and assembles the
// verdict. It mutates the profile's extracted fields and face score but never
// its lifecycle status; status transitions and persistence belong to the
// caller.
type Orchestrator struct {
	policy  config.Policy
	collabs Collaborators

	collabTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithCollaboratorTimeout bounds each external scorer call.
func WithCollaboratorTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.collabTimeout = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(policy config.Policy, collabs Collaborators, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		policy:        policy,
		collabs:       collabs,
		collabTimeout: 15 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the full pipeline over a profile and its anchor service.
// Completeness is a hard gate: if it rejects, the remaining phases never run
// and its findings are the whole verdict. Otherwise every phase runs and
// findings concatenate in phase order.
func (o *Orchestrator) Run(ctx context.Context, profile *models.ProviderProfile, anchor *models.Service) Verdict {
	o.resolveImages(ctx, profile, anchor)

	completeness := o.timedPhase(ctx, "completeness", func(context.Context) phaseResult {
		return o.runCompleteness(profile)
	})
	if len(completeness.rejections) > 0 {
		return o.finish(completeness)
	}

	var result phaseResult
	result.merge(completeness)

	phases := []struct {
		name string
		run  func(ctx context.Context) phaseResult
	}{
		{"documents", func(ctx context.Context) phaseResult { return o.runDocuments(ctx, profile) }},
		{"coherence", func(ctx context.Context) phaseResult { return o.runCoherence(profile, anchor) }},
		{"image_safety", func(ctx context.Context) phaseResult { return o.runImageSafety(ctx, profile, anchor) }},
		{"text_safety", func(ctx context.Context) phaseResult { return o.runTextSafety(profile, anchor) }},
	}
	for _, phase := range phases {
		result.merge(o.timedPhase(ctx, phase.name, phase.run))
	}

	return o.finish(result)
}

func (o *Orchestrator) finish(result phaseResult) Verdict {
	verdict := Verdict{
		Approved:    len(result.rejections) == 0,
		Rejections:  result.rejections,
		Warnings:    result.warnings,
		Alerts:      result.alerts,
		CompletedAt: o.now(),
	}
	metrics.CountVerdict(verdict.Approved)
	return verdict
}

func (o *Orchestrator) timedPhase(ctx context.Context, name string, run func(context.Context) phaseResult) phaseResult {
	start := time.Now()
	result := run(ctx)
	metrics.ObservePhase(name, time.Since(start))
	return result
}

// resolveImages fetches remote image refs once so the phases only ever see
// local bytes. A fetch failure leaves the ref remote; the dependent checks
// then skip individually.
func (o *Orchestrator) resolveImages(ctx context.Context, profile *models.ProviderProfile, anchor *models.Service) {
	refs := []*models.ImageRef{
		&profile.ProfilePhoto,
		&profile.IDCardFront,
		&profile.IDCardBack,
		&profile.SelfieWithID,
	}
	if anchor != nil {
		refs = append(refs, &anchor.Image)
	}
	for _, ref := range refs {
		if !ref.IsRemote() {
			continue
		}
		data, err := o.fetchImage(ctx, *ref)
		if err != nil {
			o.logSkip(ctx, "fetcher", err)
			continue
		}
		*ref = ref.Resolved(data)
	}
}

// Timed, bounded collaborator calls. Each wraps its scorer with the
// per-collaborator timeout and records latency.

func (o *Orchestrator) fetchImage(ctx context.Context, image models.ImageRef) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.collabTimeout)
	defer cancel()
	start := time.Now()
	data, err := o.collabs.Fetcher.FetchImage(ctx, image)
	metrics.ObserveCollaborator("fetcher", time.Since(start))
	return data, err
}

func (o *Orchestrator) extractText(ctx context.Context, image models.ImageRef) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.collabTimeout)
	defer cancel()
	start := time.Now()
	text, err := o.collabs.OCR.ExtractText(ctx, image)
	metrics.ObserveCollaborator("ocr", time.Since(start))
	return text, err
}

func (o *Orchestrator) analyzeImage(ctx context.Context, image models.ImageRef) (ports.ImageMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, o.collabTimeout)
	defer cancel()
	start := time.Now()
	m, err := o.collabs.Analyzer.AnalyzeImage(ctx, image)
	metrics.ObserveCollaborator("analyzer", time.Since(start))
	return m, err
}

func (o *Orchestrator) compareFaces(ctx context.Context, a, b models.ImageRef) (ports.FaceComparison, error) {
	ctx, cancel := context.WithTimeout(ctx, o.collabTimeout)
	defer cancel()
	start := time.Now()
	c, err := o.collabs.Faces.CompareFaces(ctx, a, b)
	metrics.ObserveCollaborator("faces", time.Since(start))
	return c, err
}

func (o *Orchestrator) moderateImage(ctx context.Context, image models.ImageRef) (ports.ModerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.collabTimeout)
	defer cancel()
	start := time.Now()
	r, err := o.collabs.Moderator.ModerateImage(ctx, image)
	metrics.ObserveCollaborator("moderator", time.Since(start))
	return r, err
}

// logSkip records a collaborator failure that downgraded a check to skipped.
// Collaborator failures never reject and never abort the run.
func (o *Orchestrator) logSkip(ctx context.Context, collaborator string, err error) {
	category := string(ports.GetCategory(err))
	metrics.CountSkippedCheck(collaborator, category)
	if o.logger != nil {
		o.logger.WarnContext(ctx, "check skipped, collaborator failed",
			"collaborator", collaborator,
			"category", category,
			"error", err,
		)
	}
}
