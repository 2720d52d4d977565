package api

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest contains the data needed for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest contains the data needed for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse carries the new token pair.
type RefreshTokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// SubmitAnswerRequest grades one answer to a due review item.
// Confidence is the learner's self-assessment in [0, 1]; omitted values
// default to neutral. Kind and Difficulty feed XP scaling.
type SubmitAnswerRequest struct {
	Correct    bool     `json:"correct"`
	Confidence *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Kind       string   `json:"kind"       validate:"omitempty,oneof=flashcard_review quiz_question listening_exercise writing_exercise"`
	Difficulty string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// RecordActivityRequest credits a non-review learning activity.
type RecordActivityRequest struct {
	Kind       string `json:"kind"       validate:"required,oneof=flashcard_review quiz_question listening_exercise writing_exercise"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Correct    bool   `json:"correct"`
}

// ItemResponse is the client view of a review item.
type ItemResponse struct {
	ID                 uuid.UUID  `json:"id"`
	EaseFactor         float64    `json:"ease_factor"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	IntervalDays       int        `json:"interval_days"`
	NextReviewAt       time.Time  `json:"next_review_at"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at,omitempty"`
	Level              int        `json:"level"`
	Mastered           bool       `json:"mastered"`
	LapseCount         int        `json:"lapse_count"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ProgressResponse is the client view of a learner's progression state.
type ProgressResponse struct {
	XP             int        `json:"xp"`
	Level          int        `json:"level"`
	LevelTitle     string     `json:"level_title"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	TotalReviews   int        `json:"total_reviews"`
	CorrectReviews int        `json:"correct_reviews"`
	Efficiency     float64    `json:"efficiency"`
	StreakAtRisk   bool       `json:"streak_at_risk"`
}

// SubmitAnswerResponse bundles the rescheduled item with the learner's
// updated progression after one answer.
type SubmitAnswerResponse struct {
	Item      ItemResponse     `json:"item"`
	Progress  ProgressResponse `json:"progress"`
	XPAwarded int              `json:"xp_awarded"`
}
