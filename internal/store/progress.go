package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

// ProgressStore defines the interface for learner progress persistence.
// Each user has at most one progress record holding XP, streak, and
// review performance state.
type ProgressStore interface {
	// Get retrieves the progress record for a user.
	// Returns ErrProgressNotFound if the user has no record yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.LearnerProgress, error)

	// GetForUpdate retrieves the progress record with a row-level lock
	// using SELECT FOR UPDATE. Use within a transaction whenever the
	// record will be written back, so concurrent answers cannot lose XP.
	// Returns ErrProgressNotFound if the user has no record yet.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.LearnerProgress, error)

	// Upsert creates the user's progress record or replaces its state.
	// The record must be valid according to domain validation rules.
	Upsert(ctx context.Context, progress *domain.LearnerProgress) error

	// ListWithActiveStreak retrieves every progress record whose current
	// streak is above zero. Used by the streak watcher to find learners
	// whose streak may be at risk of expiring.
	ListWithActiveStreak(ctx context.Context) ([]*domain.LearnerProgress, error)

	// WithTx returns a new ProgressStore bound to the provided transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProgressStore
}
