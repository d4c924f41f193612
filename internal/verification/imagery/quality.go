// Package imagery evaluates image evidence: technical quality, face
// similarity, and content moderation. It interprets raw collaborator metrics
// against policy; it never talks to the collaborators itself.
package imagery

import (
	"fmt"

	"sello/internal/platform/config"
	"sello/internal/verification/ports"
)

// QualityIssue names a specific way an image fails the quality bar.
type QualityIssue string

const (
	IssueLowResolution QualityIssue = "low_resolution"
	IssueBlurry        QualityIssue = "blurry"
	IssueTooDark       QualityIssue = "too_dark"
	IssueTooBright     QualityIssue = "too_bright"
)

// QualityReport is the verdict of EvaluateQuality for one image.
type QualityReport struct {
	OK     bool
	Issues []QualityIssue
	Detail string
}

// EvaluateQuality checks collaborator-measured metrics against the policy
// floor. Every failing dimension is reported, not just the first.
func EvaluateQuality(metrics ports.ImageMetrics, policy config.ImageQualityPolicy) QualityReport {
	var report QualityReport

	if metrics.Width < policy.MinWidth || metrics.Height < policy.MinHeight {
		report.Issues = append(report.Issues, IssueLowResolution)
	}
	if metrics.SharpnessScore < policy.SharpnessFloor {
		report.Issues = append(report.Issues, IssueBlurry)
	}
	if metrics.Brightness < policy.BrightnessMin {
		report.Issues = append(report.Issues, IssueTooDark)
	} else if metrics.Brightness > policy.BrightnessMax {
		report.Issues = append(report.Issues, IssueTooBright)
	}

	report.OK = len(report.Issues) == 0
	if !report.OK {
		report.Detail = fmt.Sprintf("%dx%d sharpness=%.1f brightness=%.1f", metrics.Width, metrics.Height, metrics.SharpnessScore, metrics.Brightness)
	}
	return report
}
