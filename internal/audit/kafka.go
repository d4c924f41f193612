package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"sello/internal/platform/config"
	"sello/pkg/platform/audit"
)

// KafkaAlertSink produces security events to a Kafka topic for the moderation
// pipeline. Production is fire-and-forget: a broker outage must never stall a
// verification run, and every event is already persisted in the local store.
type KafkaAlertSink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaAlertSink connects to the configured brokers. Returns nil when no
// brokers are configured so callers can wire it unconditionally.
func NewKafkaAlertSink(cfg config.KafkaConfig, logger *slog.Logger) (*KafkaAlertSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.ProduceRequestTimeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &KafkaAlertSink{
		client: client,
		topic:  cfg.SecurityTopic,
		logger: logger,
	}, nil
}

type alertEnvelope struct {
	ProfileID string            `json:"profile_id"`
	Action    string            `json:"action"`
	Severity  string            `json:"severity"`
	Reason    string            `json:"reason"`
	Evidence  map[string]string `json:"evidence,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func (s *KafkaAlertSink) Publish(ctx context.Context, event audit.Event) {
	payload, err := json.Marshal(alertEnvelope{
		ProfileID: event.ProfileID.String(),
		Action:    event.Action,
		Severity:  string(event.Severity),
		Reason:    event.Reason,
		Evidence:  event.Evidence,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "marshal security alert failed", "error", err)
		}
		return
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.ProfileID.String()),
		Value: payload,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && s.logger != nil {
			s.logger.Error("security alert produce failed",
				"topic", s.topic,
				"profile_id", event.ProfileID,
				"error", err,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (s *KafkaAlertSink) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Flush(ctx)
	s.client.Close()
}
