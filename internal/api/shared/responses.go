package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/platform/logger"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/redact"
)

// ErrorResponse is the envelope for every error returned to a client.
// Code is kept for internal logging but never serialized.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"-"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes v as a JSON response with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log := logger.FromContextOrDefault(r.Context())
		log.Error("failed to encode response",
			slog.String("error", redact.Error(err)),
			slog.String("path", r.URL.Path))
	}
}

// RespondWithError writes a JSON error response with the given status
// and client-safe message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes a client-safe error response and logs
// the underlying error with full (redacted) detail. Server errors log
// at ERROR, rate limiting at WARN, and remaining client errors at
// DEBUG so expected rejections do not pollute the error stream.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	err error,
) {
	log := logger.FromContextOrDefault(r.Context())
	attrs := []any{
		slog.Int("status", status),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.String("trace_id", GetTraceID(r.Context())),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", redact.Error(err)))
	}

	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", attrs...)
	case status == http.StatusTooManyRequests:
		log.Warn("request throttled", attrs...)
	default:
		log.Debug("request rejected", attrs...)
	}

	RespondWithError(w, r, status, message)
}
