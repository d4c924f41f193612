package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// Examples: verification verdicts, profile state changes.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events routed to human moderation and
	// alerting. Examples: prohibited-content hits, moderation breaches.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. Examples: run enqueued, collaborator check skipped.
	CategoryOperations EventCategory = "operations"
)

// Severity levels for security events.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	ProfileID uuid.UUID
	Action    string
	Decision  string
	Reason    string
	Severity  Severity
	// Evidence carries the material a human reviewer needs: matched
	// category, offending keywords, text excerpt. Never shown to the
	// profile owner.
	Evidence map[string]string
}

type AuditEvent string

const (
	// Verification lifecycle events
	EventVerificationEnqueued  AuditEvent = "verification_enqueued"
	EventVerificationCompleted AuditEvent = "verification_completed"
	EventReverificationDenied  AuditEvent = "reverification_denied"
	EventProfileStateChanged   AuditEvent = "profile_state_changed"

	// Security events
	EventSecurityAlertRaised AuditEvent = "security_alert_raised"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVerificationCompleted: CategoryCompliance,
	EventProfileStateChanged:   CategoryCompliance,
	EventSecurityAlertRaised:   CategorySecurity,
	EventVerificationEnqueued:  CategoryOperations,
	EventReverificationDenied:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
