package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/progress"
)

func testLearnerProgress(userID uuid.UUID) *domain.LearnerProgress {
	return &domain.LearnerProgress{
		UserID: userID,
		Progression: domain.ProgressionState{
			XP:         150,
			Level:      1,
			LevelTitle: "Apprendista",
		},
		Streak: domain.StreakState{
			CurrentStreak:  4,
			LongestStreak:  9,
			LastActivityAt: time.Date(2025, 4, 9, 20, 0, 0, 0, time.UTC),
		},
		Performance: domain.ReviewPerformance{TotalReviews: 40, CorrectReviews: 30},
	}
}

func TestProgressHandler_GetProgress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockReviewService{
		progressFn: func(_ context.Context, gotUserID uuid.UUID) (*domain.LearnerProgress, error) {
			assert.Equal(t, userID, gotUserID)
			return testLearnerProgress(userID), nil
		},
		streakAtRiskFn: func(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
			return true, nil
		},
	}
	handler := NewProgressHandler(svc, slog.Default())

	w := httptest.NewRecorder()
	handler.GetProgress(w, authedRequest("GET", "/progress", userID, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 150, resp.XP)
	assert.Equal(t, 1, resp.Level)
	assert.Equal(t, "Apprendista", resp.LevelTitle)
	assert.Equal(t, 4, resp.CurrentStreak)
	assert.Equal(t, 9, resp.LongestStreak)
	assert.Equal(t, 40, resp.TotalReviews)
	assert.Equal(t, 30, resp.CorrectReviews)
	assert.InDelta(t, 75.0, resp.Efficiency, 0.0001)
	assert.True(t, resp.StreakAtRisk)
	require.NotNil(t, resp.LastActivityAt)
}

func TestProgressHandler_GetProgress_RiskCheckFailureIsAdvisory(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockReviewService{
		progressFn: func(_ context.Context, _ uuid.UUID) (*domain.LearnerProgress, error) {
			return testLearnerProgress(userID), nil
		},
		streakAtRiskFn: func(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
			return false, errors.New("transient store failure")
		},
	}
	handler := NewProgressHandler(svc, slog.Default())

	w := httptest.NewRecorder()
	handler.GetProgress(w, authedRequest("GET", "/progress", userID, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.StreakAtRisk)
}

func TestProgressHandler_GetProgress_FreshUser(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockReviewService{
		progressFn: func(_ context.Context, _ uuid.UUID) (*domain.LearnerProgress, error) {
			return &domain.LearnerProgress{
				UserID:      userID,
				Progression: domain.ProgressionState{LevelTitle: "Principiante"},
			}, nil
		},
		streakAtRiskFn: func(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
			return false, nil
		},
	}
	handler := NewProgressHandler(svc, slog.Default())

	w := httptest.NewRecorder()
	handler.GetProgress(w, authedRequest("GET", "/progress", userID, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.XP)
	assert.Equal(t, "Principiante", resp.LevelTitle)
	assert.Nil(t, resp.LastActivityAt)
	assert.Zero(t, resp.Efficiency)
}

func TestProgressHandler_RecordActivity(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockReviewService{
		recordActivityFn: func(_ context.Context, gotUserID uuid.UUID, kind progress.ActivityKind, difficulty progress.Difficulty, correct bool) (*domain.LearnerProgress, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, progress.ActivityListening, kind)
			assert.Equal(t, progress.DifficultyMedium, difficulty)
			assert.True(t, correct)
			return testLearnerProgress(userID), nil
		},
	}
	handler := NewProgressHandler(svc, slog.Default())

	body := []byte(`{"kind":"listening_exercise","difficulty":"medium","correct":true}`)
	w := httptest.NewRecorder()
	handler.RecordActivity(w, authedRequest("POST", "/activity", userID, body))

	require.Equal(t, http.StatusOK, w.Code)

	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 150, resp.XP)
}

func TestProgressHandler_RecordActivity_Validation(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{}
	handler := NewProgressHandler(svc, slog.Default())

	tests := []struct {
		name string
		body string
	}{
		{"missing kind", `{"difficulty":"easy","correct":true}`},
		{"unknown kind", `{"kind":"osmosis","difficulty":"easy","correct":true}`},
		{"missing difficulty", `{"kind":"listening_exercise","correct":true}`},
		{"malformed body", `{"kind":`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			handler.RecordActivity(w, authedRequest("POST", "/activity", uuid.New(), []byte(tc.body)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProgressHandler_Unauthenticated(t *testing.T) {
	t.Parallel()

	handler := NewProgressHandler(&mockReviewService{}, slog.Default())

	w := httptest.NewRecorder()
	handler.GetProgress(w, httptest.NewRequest("GET", "/progress", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
