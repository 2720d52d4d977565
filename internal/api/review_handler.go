package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/shared"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/platform/logger"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/progress"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/redact"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/review"
)

// defaultCalendarDays is the calendar horizon when the client does not
// ask for a specific number of days.
const defaultCalendarDays = 14

// maxCalendarDays caps the calendar horizon so a single request cannot
// ask for an unbounded projection.
const maxCalendarDays = 90

// ReviewHandler handles review item HTTP requests: listing due items,
// submitting answers, resetting items, and the schedule summary.
type ReviewHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService review.ReviewService, log *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "review_handler")),
	}
}

// CreateItem handles POST /items, registering a new review item due
// immediately.
func (h *ReviewHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	item, err := h.reviewService.CreateItem(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// DueItems handles GET /items/due. With ?optimize=true the list is
// reordered hardest-first for session planning.
func (h *ReviewHandler) DueItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	optimize := r.URL.Query().Get("optimize") == "true"

	items, err := h.reviewService.DueItems(r.Context(), userID, optimize)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due items")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// SubmitAnswer handles POST /items/{id}/answer, grading one answer and
// returning the rescheduled item with the learner's updated progress.
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context())

	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	itemID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("item_id", itemID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	answer := review.ReviewAnswer{
		Correct:    req.Correct,
		Confidence: 0.5,
		Kind:       progress.ActivityKind(req.Kind),
		Difficulty: progress.Difficulty(req.Difficulty),
	}
	if req.Confidence != nil {
		answer.Confidence = *req.Confidence
	}

	result, err := h.reviewService.SubmitAnswer(r.Context(), userID, itemID, answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("answer submitted",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Bool("correct", req.Correct),
		slog.Int("xp_awarded", result.XPAwarded))

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitAnswerResponse{
		Item:      itemToResponse(result.Item),
		Progress:  progressToResponse(result.Progress, false),
		XPAwarded: result.XPAwarded,
	})
}

// ResetItem handles POST /items/{id}/reset, returning the item to its
// initial scheduling state.
func (h *ReviewHandler) ResetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	itemID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.reviewService.ResetItem(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// Schedule handles GET /schedule, summarizing the learner's upcoming
// workload. The ?days query parameter sets the calendar horizon.
func (h *ReviewHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	days := defaultCalendarDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxCalendarDays {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	summary, err := h.reviewService.Schedule(r.Context(), userID, days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build schedule")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
