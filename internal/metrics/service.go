package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		QueueJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rifthouse_queue_joins_total",
			Help: "The total number of accepted queue joins.",
		}),
		MatchesFormed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rifthouse_matches_formed_total",
			Help: "The total number of matches formed from the queue.",
		}),
		MatchesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rifthouse_matches_cancelled_total",
			Help: "The total number of matches cancelled before completion.",
		}),
		AcceptTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rifthouse_accept_timeouts_total",
			Help: "The total number of acceptance gates that expired with pending players.",
		}),
		DraftsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rifthouse_drafts_completed_total",
			Help: "The total number of drafts that ran to completion.",
		}),
		ActionsSynthesized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rifthouse_draft_actions_synthesized_total",
			Help: "The total number of draft actions synthesized for bots or expired phases.",
		}),
		DraftDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rifthouse_draft_duration_seconds",
			Help:    "The duration of completed drafts from session start to completion.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rifthouse_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.QueueJoins,
		s.MatchesFormed,
		s.MatchesCancelled,
		s.AcceptTimeouts,
		s.DraftsCompleted,
		s.ActionsSynthesized,
		s.DraftDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncQueueJoins() {
	s.QueueJoins.Inc()
}

func (s *Service) IncMatchesFormed() {
	s.MatchesFormed.Inc()
}

func (s *Service) IncMatchesCancelled() {
	s.MatchesCancelled.Inc()
}

func (s *Service) IncAcceptTimeouts() {
	s.AcceptTimeouts.Inc()
}

func (s *Service) IncDraftsCompleted() {
	s.DraftsCompleted.Inc()
}

func (s *Service) IncActionsSynthesized() {
	s.ActionsSynthesized.Inc()
}

func (s *Service) ObserveDraftDuration(seconds float64) {
	s.DraftDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
