package http

import (
	"net/http"

	"github.com/rifthouse/rifthouse/internal/config"
	"github.com/rifthouse/rifthouse/internal/dispatch"
	"github.com/rifthouse/rifthouse/internal/metrics"
)

type Server struct {
	Dispatcher     *dispatch.Dispatcher
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
