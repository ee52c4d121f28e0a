package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	QueueJoins         prometheus.Counter
	MatchesFormed      prometheus.Counter
	MatchesCancelled   prometheus.Counter
	AcceptTimeouts     prometheus.Counter
	DraftsCompleted    prometheus.Counter
	ActionsSynthesized prometheus.Counter
	DraftDuration      prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
