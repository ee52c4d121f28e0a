package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncQueueJoins()
	IncMatchesFormed()
	IncMatchesCancelled()
	IncAcceptTimeouts()
	IncDraftsCompleted()
	IncActionsSynthesized()
	ObserveDraftDuration(seconds float64)
	SetStartupTime(seconds float64)
}
