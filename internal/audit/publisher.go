package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sello/pkg/platform/audit"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. Security
// events additionally fan out to the optional alert sink (Kafka).
type Publisher struct {
	store  Store
	alerts AlertSink
	logger *slog.Logger
}

// AlertSink receives security-category events out-of-band. Implementations
// must not block the caller on broker availability.
type AlertSink interface {
	Publish(ctx context.Context, event audit.Event)
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithAlertSink(sink AlertSink) Option {
	return func(p *Publisher) { p.alerts = sink }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit append failed",
				"action", event.Action,
				"profile_id", event.ProfileID,
				"error", err,
			)
		}
		return err
	}
	if event.Category == audit.CategorySecurity && p.alerts != nil {
		p.alerts.Publish(ctx, event)
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, profileID uuid.UUID) ([]audit.Event, error) {
	return p.store.ListByProfile(ctx, profileID)
}
