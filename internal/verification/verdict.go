// Package verification implements the multi-phase pipeline that decides
// whether a provider profile may go live. Phases run in a fixed order over a
// profile and its anchor service; the verdict is deterministic for a given
// profile, policy, and set of collaborator responses.
package verification

import (
	"time"

	"sello/internal/provider/models"
	"sello/pkg/platform/audit"
)

// Warning is an advisory finding. Warnings never affect approval.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SecurityAlert flags content for human moderation. Alerts are routed to the
// audit pipeline and never shown to the profile owner, and never affect
// approval on their own.
type SecurityAlert struct {
	Severity audit.Severity    `json:"severity"`
	Category string            `json:"category"`
	Evidence map[string]string `json:"evidence"`
}

// Verdict is the outcome of one verification run. Approved is true exactly
// when Rejections is empty.
type Verdict struct {
	Approved    bool                     `json:"approved"`
	Rejections  []models.RejectionReason `json:"rejections"`
	Warnings    []Warning                `json:"warnings"`
	Alerts      []SecurityAlert          `json:"security_alerts"`
	CompletedAt time.Time                `json:"completed_at"`
}

// phaseResult accumulates one phase's findings. Slices keep the order in
// which the checks produced them.
type phaseResult struct {
	rejections []models.RejectionReason
	warnings   []Warning
	alerts     []SecurityAlert
}

func (r *phaseResult) reject(code, message string) {
	r.rejections = append(r.rejections, models.RejectionReason{Code: code, Message: message})
}

func (r *phaseResult) warn(code, message string) {
	r.warnings = append(r.warnings, Warning{Code: code, Message: message})
}

func (r *phaseResult) alert(severity audit.Severity, category string, evidence map[string]string) {
	r.alerts = append(r.alerts, SecurityAlert{Severity: severity, Category: category, Evidence: evidence})
}

func (r *phaseResult) merge(other phaseResult) {
	r.rejections = append(r.rejections, other.rejections...)
	r.warnings = append(r.warnings, other.warnings...)
	r.alerts = append(r.alerts, other.alerts...)
}
