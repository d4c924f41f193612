// Package metrics exposes Prometheus instrumentation for the verification
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sello",
		Subsystem: "verification",
		Name:      "phase_duration_seconds",
		Help:      "Duration of each verification phase.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase"})

	verdictTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sello",
		Subsystem: "verification",
		Name:      "verdicts_total",
		Help:      "Verification runs by outcome.",
	}, []string{"outcome"})

	collaboratorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sello",
		Subsystem: "verification",
		Name:      "collaborator_duration_seconds",
		Help:      "Latency of external collaborator calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"collaborator"})

	skippedChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sello",
		Subsystem: "verification",
		Name:      "skipped_checks_total",
		Help:      "Checks skipped because a collaborator failed.",
	}, []string{"collaborator", "category"})
)

func ObservePhase(phase string, d time.Duration) {
	phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func CountVerdict(approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	verdictTotal.WithLabelValues(outcome).Inc()
}

func ObserveCollaborator(collaborator string, d time.Duration) {
	collaboratorDuration.WithLabelValues(collaborator).Observe(d.Seconds())
}

func CountSkippedCheck(collaborator, category string) {
	skippedChecks.WithLabelValues(collaborator, category).Inc()
}
