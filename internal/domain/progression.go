package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgressionState is a learner's accumulated experience and derived level.
// XP only ever increases; the level and title are recomputed from the level
// table on every award and never stored independently of it.
type ProgressionState struct {
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
	LevelTitle string `json:"level_title"`
}

// StreakState tracks consecutive calendar days with learner activity.
// LastActivityAt is zero when the learner has never been active.
type StreakState struct {
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Validate checks the streak invariants.
func (s StreakState) Validate() error {
	if s.CurrentStreak < 0 || s.LongestStreak < 0 {
		return NewValidationError("streak", "cannot be negative", ErrValidation)
	}
	if s.LongestStreak < s.CurrentStreak {
		return NewValidationError("longest_streak", "cannot be below current streak", ErrValidation)
	}
	return nil
}

// ReviewPerformance accumulates lifetime answer counters for a learner.
// Both counters are monotonic; efficiency is always derived, never stored.
type ReviewPerformance struct {
	TotalReviews   int `json:"total_reviews"`
	CorrectReviews int `json:"correct_reviews"`
}

// RecordReview returns the performance with one more answer counted.
func (p ReviewPerformance) RecordReview(correct bool) ReviewPerformance {
	p.TotalReviews++
	if correct {
		p.CorrectReviews++
	}
	return p
}

// Efficiency returns the percentage of correct answers, 0 when no reviews
// have been recorded yet.
func (p ReviewPerformance) Efficiency() float64 {
	if p.TotalReviews == 0 {
		return 0
	}
	return float64(p.CorrectReviews) / float64(p.TotalReviews) * 100
}

// LearnerProgress is the per-learner aggregate the host loads before
// invoking the engine and persists afterwards: progression, streak, and
// lifetime performance for one learner.
type LearnerProgress struct {
	UserID      uuid.UUID         `json:"user_id"`
	Progression ProgressionState  `json:"progression"`
	Streak      StreakState       `json:"streak"`
	Performance ReviewPerformance `json:"performance"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewLearnerProgress creates an empty progress aggregate for a learner.
func NewLearnerProgress(userID uuid.UUID, now time.Time) (*LearnerProgress, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	return &LearnerProgress{
		UserID:    userID,
		UpdatedAt: now,
	}, nil
}

// Validate checks the aggregate's invariants.
func (p *LearnerProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if p.Progression.XP < 0 {
		return NewValidationError("xp", "cannot be negative", ErrValidation)
	}
	if p.Performance.CorrectReviews > p.Performance.TotalReviews {
		return NewValidationError("performance", "correct reviews exceed total", ErrValidation)
	}
	return p.Streak.Validate()
}

// Clone returns a copy of the aggregate.
func (p *LearnerProgress) Clone() *LearnerProgress {
	out := *p
	return &out
}
