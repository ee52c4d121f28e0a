package http

import (
	"net/http"

	"github.com/rifthouse/rifthouse/internal/config"
	"github.com/rifthouse/rifthouse/internal/dispatch"
	"github.com/rifthouse/rifthouse/internal/metrics"
)

func NewServer(dispatcher *dispatch.Dispatcher, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Dispatcher:     dispatcher,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/connect", Chain(s.ConnectHandler(), paramsMiddleware))
	s.Router.Handle("/disconnect", Chain(s.DisconnectHandler(), paramsMiddleware))
	s.Router.Handle("/queue/join", Chain(s.JoinQueueHandler(), paramsMiddleware))
	s.Router.Handle("/queue/leave", Chain(s.LeaveQueueHandler(), paramsMiddleware))
	s.Router.Handle("/queue", Chain(s.QueueSnapshotHandler(), paramsMiddleware))
	s.Router.Handle("/match/accept", Chain(s.AcceptMatchHandler(), paramsMiddleware))
	s.Router.Handle("/match/decline", Chain(s.DeclineMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/draft/action", Chain(s.DraftActionHandler(), paramsMiddleware))
	s.Router.Handle("/draft/cancel", Chain(s.CancelDraftHandler(), paramsMiddleware))
	s.Router.Handle("/resync", Chain(s.ResyncHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
