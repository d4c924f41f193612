package imagery

import (
	"sort"

	"sello/internal/platform/config"
	"sello/internal/verification/ports"
)

// ModerationFinding is one moderation category whose score crossed its
// policy threshold.
type ModerationFinding struct {
	Category string
	Score    float64
	Critical bool
}

// EvaluateModeration compares collaborator category scores against per-
// category thresholds and flags findings in the policy's critical list.
// Findings come back sorted by category for stable output.
func EvaluateModeration(result ports.ModerationResult, policy *config.Policy) []ModerationFinding {
	critical := make(map[string]struct{}, len(policy.CriticalModerationCategories))
	for _, c := range policy.CriticalModerationCategories {
		critical[c] = struct{}{}
	}

	var findings []ModerationFinding
	for category, score := range result.CategoryScores {
		threshold, ok := policy.ModerationThresholds[category]
		if !ok {
			continue
		}
		if score < threshold {
			continue
		}
		_, isCritical := critical[category]
		findings = append(findings, ModerationFinding{
			Category: category,
			Score:    score,
			Critical: isCritical,
		})
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].Category < findings[j].Category })
	return findings
}

// HasCritical reports whether any finding belongs to a critical category.
func HasCritical(findings []ModerationFinding) bool {
	for _, f := range findings {
		if f.Critical {
			return true
		}
	}
	return false
}
