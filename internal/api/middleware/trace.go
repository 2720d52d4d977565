package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/shared"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/platform/logger"
)

// Trace assigns every request a trace ID and stores a trace-scoped
// logger in the context so downstream handlers and services log with
// the same trace_id attribute. Apply it before any other middleware.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
