package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/shared"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

// getUserIDFromContext extracts the authenticated user's ID placed in
// the context by the auth middleware. A missing or nil ID means the
// middleware did not run; respond 401 and report failure.
func getUserIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID parses a UUID path parameter, responding 400 on failure.
func getPathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+param+" path parameter")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}

// itemToResponse converts a domain item to its client representation.
func itemToResponse(item *domain.Item) ItemResponse {
	resp := ItemResponse{
		ID:                 item.ID,
		EaseFactor:         item.EaseFactor,
		ConsecutiveCorrect: item.ConsecutiveCorrect,
		IntervalDays:       item.IntervalDays,
		NextReviewAt:       item.NextReviewAt,
		Level:              item.Level,
		Mastered:           item.Mastered,
		LapseCount:         item.LapseCount,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
	if !item.LastReviewedAt.IsZero() {
		t := item.LastReviewedAt
		resp.LastReviewedAt = &t
	}
	return resp
}

// itemsToResponse converts a list of items, returning an empty slice
// rather than nil so clients always receive a JSON array.
func itemsToResponse(items []*domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemToResponse(item))
	}
	return out
}

// progressToResponse converts a learner progress aggregate to its
// client representation.
func progressToResponse(p *domain.LearnerProgress, streakAtRisk bool) ProgressResponse {
	resp := ProgressResponse{
		XP:             p.Progression.XP,
		Level:          p.Progression.Level,
		LevelTitle:     p.Progression.LevelTitle,
		CurrentStreak:  p.Streak.CurrentStreak,
		LongestStreak:  p.Streak.LongestStreak,
		TotalReviews:   p.Performance.TotalReviews,
		CorrectReviews: p.Performance.CorrectReviews,
		Efficiency:     p.Performance.Efficiency(),
		StreakAtRisk:   streakAtRisk,
	}
	if !p.Streak.LastActivityAt.IsZero() {
		t := p.Streak.LastActivityAt
		resp.LastActivityAt = &t
	}
	return resp
}
