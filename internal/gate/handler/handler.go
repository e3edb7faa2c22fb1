package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"oceangate/internal/gate"
	dErrors "oceangate/pkg/domain-errors"
	"oceangate/pkg/platform/httputil"
	"oceangate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/gate_mocks.go -package=mocks Service

// Service defines the interface for gate evaluation.
type Service interface {
	Evaluate(ctx context.Context, req gate.Request) (*gate.Result, error)
}

// Handler wires the check endpoint to the gate service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gate handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts gate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/check", h.HandleCheck)
}

// HandleCheck handles POST /api/check requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req CheckRequest
	if err := httputil.DecodeJSON(r, &req); err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		h.writeError(ctx, w, r, dErrors.Wrap(err, dErrors.CodeInternal, "unexpected request shape"))
		return
	}

	domainReq := req.ToDomain(requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx))

	result, err := h.service.Evaluate(ctx, domainReq)
	if err != nil {
		h.writeError(ctx, w, r, err)
		return
	}

	h.logger.DebugContext(ctx, "check completed",
		"request_id", requestID,
		"ocean", result.Response.Ocean,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResponse(result.Response))
}

// writeError maps a service error to a denial payload. Client-side errors
// carry their message; anything else is reported generically.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "check request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		WriteInternalError(w, r)
		return
	}

	msg := err.Error()
	var de *dErrors.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	httputil.WriteJSON(w, status, FromResponse(gate.DeniedWithError(msg)))
}
