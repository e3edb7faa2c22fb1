package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gatehandler "oceangate/internal/gate/handler"
	"oceangate/internal/platform/metrics"
	"oceangate/internal/platform/middleware"
	"oceangate/pkg/platform/middleware/metadata"
	"oceangate/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every handler that mounts its own routes.
type Registrar interface {
	Register(r chi.Router)
}

// Deps collects what the router needs. Gatherer may be nil, in which case
// /metrics is not mounted.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer
	Handlers []Registrar
}

// NewRouter wires the middleware chain and all public endpoints. Recovery
// sits outermost so a panic anywhere still yields the gate's 500 payload.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger, deps.Metrics, gatehandler.WriteInternalError))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(deps.Metrics))

	for _, h := range deps.Handlers {
		h.Register(r)
	}

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
