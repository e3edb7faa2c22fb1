// Package health serves the liveness probe. It never evaluates the gate and
// never calls out.
package health

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"oceangate/pkg/platform/httputil"
	"oceangate/pkg/requestcontext"
)

const statusOK = "OK"

// timestampLayout matches ISO-8601 with millisecond precision, e.g.
// 2026-02-25T08:30:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Options controls what the probe reports beyond its status.
type Options struct {
	// Details adds the current server time and the threshold date.
	Details       bool
	ThresholdDate string
}

// Response is the body of GET /health.
type Response struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp,omitempty"`
	ThresholdDate string `json:"thresholdDate,omitempty"`
}

// Handler serves GET /health.
type Handler struct {
	opts Options
}

func New(opts Options) *Handler {
	return &Handler{opts: opts}
}

// Register mounts the probe on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
}

// HandleHealth always answers 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := Response{Status: statusOK}
	if h.opts.Details {
		resp.Timestamp = Timestamp(requestcontext.Now(r.Context()))
		resp.ThresholdDate = h.opts.ThresholdDate
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Timestamp formats t the way the probe reports it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
