package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/shared"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/platform/logger"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/progress"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/redact"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/review"
)

// ProgressHandler handles learner progression HTTP requests.
type ProgressHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(reviewService review.ReviewService, log *slog.Logger) *ProgressHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ProgressHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProgressHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /progress, returning the learner's XP, level,
// streak, and lifetime performance, with a flag when the streak would
// expire today without further activity.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context())

	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	learnerProgress, err := h.reviewService.Progress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get progress")
		return
	}

	atRisk, err := h.reviewService.StreakAtRisk(r.Context(), userID, time.Now().UTC())
	if err != nil {
		// Risk detection is advisory; the progress payload still stands.
		log.Warn("failed to evaluate streak risk",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		atRisk = false
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(learnerProgress, atRisk))
}

// RecordActivity handles POST /activity, crediting a non-review
// learning activity such as a listening or writing exercise.
func (h *ProgressHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req RecordActivityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	learnerProgress, err := h.reviewService.RecordActivity(
		r.Context(),
		userID,
		progress.ActivityKind(req.Kind),
		progress.Difficulty(req.Difficulty),
		req.Correct,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record activity")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(learnerProgress, false))
}
