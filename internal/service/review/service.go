// Package review orchestrates the spaced repetition engine for HTTP
// consumers: it loads items and learner progress from the stores, runs the
// scheduling and progression logic inside a transaction, and persists the
// results.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/progress"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/scheduler"
)

// ReviewAnswer is a learner's graded answer to a due item.
type ReviewAnswer struct {
	// Correct reports whether the learner answered correctly.
	Correct bool `json:"correct"`

	// Confidence is the learner's self-reported confidence in [0, 1].
	// Out-of-range values are coerced to neutral.
	Confidence float64 `json:"confidence"`

	// Kind identifies the activity for XP purposes. Empty defaults to
	// flashcard review.
	Kind progress.ActivityKind `json:"kind"`

	// Difficulty grades the activity for XP scaling. Empty defaults to easy.
	Difficulty progress.Difficulty `json:"difficulty"`
}

// ReviewResult is everything that changed by submitting one answer.
type ReviewResult struct {
	Item      *domain.Item            `json:"item"`
	Progress  *domain.LearnerProgress `json:"progress"`
	XPAwarded int                     `json:"xp_awarded"`
}

// ScheduleSummary is the aggregated review workload for a learner.
type ScheduleSummary struct {
	Schedule scheduler.ReviewSchedule `json:"schedule"`
	Calendar []scheduler.CalendarDay  `json:"calendar"`
}

// ReviewService exposes the scheduling and progression engine to the host
// application. All mutating operations run inside a single transaction.
type ReviewService interface {
	// CreateItem registers a new review item for the user, due immediately.
	CreateItem(ctx context.Context, userID uuid.UUID) (*domain.Item, error)

	// SubmitAnswer grades one answer for a due item: it advances the item's
	// schedule, awards XP, extends the streak, and updates lifetime
	// performance, all atomically.
	//
	// Returns ErrItemNotFound if the item does not exist,
	// ErrItemNotOwned if it belongs to another user, and
	// domain.ErrInvalidTimestamp if the item was already reviewed at a
	// later instant.
	SubmitAnswer(ctx context.Context, userID, itemID uuid.UUID, answer ReviewAnswer) (*ReviewResult, error)

	// DueItems lists the user's items due now, earliest first. With
	// optimize set, the list is reordered so the weakest items come first.
	DueItems(ctx context.Context, userID uuid.UUID, optimize bool) ([]*domain.Item, error)

	// Schedule summarizes the user's upcoming workload: due-today /
	// this-week / next-week buckets, plus a per-day calendar covering
	// calendarDays days.
	Schedule(ctx context.Context, userID uuid.UUID, calendarDays int) (*ScheduleSummary, error)

	// RecordActivity credits a non-review learning activity (listening,
	// writing, quizzes): XP is awarded and the streak extended, atomically.
	RecordActivity(ctx context.Context, userID uuid.UUID, kind progress.ActivityKind, difficulty progress.Difficulty, correct bool) (*domain.LearnerProgress, error)

	// Progress returns the user's progression, streak, and performance
	// state. A user who has never been active gets a zeroed aggregate.
	Progress(ctx context.Context, userID uuid.UUID) (*domain.LearnerProgress, error)

	// ResetItem returns an item to its initial scheduling state: default
	// ease, no streak, due immediately, mastery cleared.
	//
	// Returns ErrItemNotFound or ErrItemNotOwned as for SubmitAnswer.
	ResetItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Item, error)

	// StreakAtRisk reports whether the user's streak will expire today
	// without further activity, as of the given instant.
	StreakAtRisk(ctx context.Context, userID uuid.UUID, asOf time.Time) (bool, error)
}

// Common error types for ReviewService.
var (
	// ErrItemNotFound indicates that the review item does not exist.
	ErrItemNotFound = errors.New("review item not found")

	// ErrItemNotOwned indicates that the user does not own the item.
	ErrItemNotOwned = errors.New("unauthorized access: item not owned by user")

	// ErrInvalidAnswer indicates a malformed answer submission.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// ServiceError wraps unexpected errors from the review service with the
// operation that failed, so callers can distinguish failure sites with
// errors.As instead of string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
