package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"oceangate/internal/platform/metrics"
	"oceangate/pkg/requestcontext"
)

// Recovery turns a panic anywhere below it into a call to fallback. The panic
// value and stack are logged; nothing about them reaches the client.
// If the handler already started the response, only the log line is written.
func Recovery(logger *slog.Logger, m *metrics.HTTP, fallback http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				ctx := r.Context()
				m.IncrementPanics()
				logger.ErrorContext(ctx, "panic recovered",
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
					"stack", string(debug.Stack()),
				)

				if ww.Status() != 0 {
					return
				}
				fallback(ww, r)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
