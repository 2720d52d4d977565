package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Default scheduling values for a freshly created item.
const (
	// DefaultEaseFactor is the starting ease for a new item.
	DefaultEaseFactor = 2.5

	// MaxLevel is the highest tracked proficiency level. An item at
	// MaxLevel whose most recent answer was correct is mastered.
	MaxLevel = 5
)

// Common validation errors for Item.
var (
	ErrEmptyItemID       = errors.New("item ID cannot be empty")
	ErrEmptyItemUserID   = errors.New("item user ID cannot be empty")
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")
	ErrInvalidInterval   = errors.New("interval must be greater than or equal to 0")
	ErrInvalidLevel      = errors.New("level must be between 0 and 5")
)

// Item is one learnable flashcard or practice question owned by a single
// learner. It carries the full per-item spaced repetition state: the ease
// factor, the consecutive-correct streak, and the next due timestamp.
// Items are mutated only by the scheduler; everything else reads them.
type Item struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	EaseFactor         float64   `json:"ease_factor"`         // clamped to [floor, ceiling], starts at 2.5
	ConsecutiveCorrect int       `json:"consecutive_correct"` // resets to 0 on any incorrect answer
	IntervalDays       int       `json:"interval_days"`       // current review interval in days
	NextReviewAt       time.Time `json:"next_review_at"`      // earliest moment the item becomes due
	LastReviewedAt     time.Time `json:"last_reviewed_at"`    // zero value means never reviewed

	Level    int  `json:"level"`    // derived from ease, 0..5
	Mastered bool `json:"mastered"` // level 5 with the latest answer correct

	LapseCount     int     `json:"lapse_count"`     // total incorrect answers, feeds session ordering
	LastConfidence float64 `json:"last_confidence"` // learner-reported, 0..1, neutral 0.5

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewItem creates a review item with default scheduling state. The item is
// due immediately so it enters the learner's queue on creation.
func NewItem(id, userID uuid.UUID, now time.Time) (*Item, error) {
	item := &Item{
		ID:             id,
		UserID:         userID,
		EaseFactor:     DefaultEaseFactor,
		IntervalDays:   0,
		NextReviewAt:   now,
		Level:          LevelForEase(DefaultEaseFactor),
		LastConfidence: 0.5,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks that the item's scheduling state is internally consistent.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyItemID
	}
	if i.UserID == uuid.Nil {
		return ErrEmptyItemUserID
	}
	if i.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}
	if i.IntervalDays < 0 {
		return ErrInvalidInterval
	}
	if i.Level < 0 || i.Level > MaxLevel {
		return ErrInvalidLevel
	}
	if i.ConsecutiveCorrect < 0 {
		return NewValidationError("consecutive_correct", "cannot be negative", ErrValidation)
	}
	return nil
}

// IsDue reports whether the item's next review time has passed.
func (i *Item) IsDue(asOf time.Time) bool {
	return !i.NextReviewAt.After(asOf)
}

// Clone returns a copy of the item. Scheduling transitions operate on
// copies so callers never observe a half-applied update.
func (i *Item) Clone() *Item {
	out := *i
	return &out
}

// LevelForEase projects an ease factor onto the 0..5 proficiency scale.
// The mapping is floor(ease*2 - 2) clamped into range, so the default ease
// of 2.5 lands at level 3 and the 1.3 ease floor lands at level 0.
func LevelForEase(ease float64) int {
	level := int(ease*2 - 2)
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
