package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

const progressColumns = `user_id, xp, level, level_title, current_streak,
	longest_streak, last_activity_at, total_reviews, correct_reviews, updated_at`

// PostgresProgressStore implements store.ProgressStore using PostgreSQL.
// The aggregate is stored denormalized in a single learner_progress row.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a PostgreSQL implementation of
// ProgressStore. The connection or transaction is initialized and managed
// by the caller. A nil logger falls back to the process default.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.Get.
func (s *PostgresProgressStore) Get(ctx context.Context, userID uuid.UUID) (*domain.LearnerProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM learner_progress WHERE user_id = $1`
	return s.getOne(ctx, query, userID)
}

// GetForUpdate implements store.ProgressStore.GetForUpdate.
func (s *PostgresProgressStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.LearnerProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM learner_progress WHERE user_id = $1 FOR UPDATE`
	return s.getOne(ctx, query, userID)
}

func (s *PostgresProgressStore) getOne(ctx context.Context, query string, userID uuid.UUID) (*domain.LearnerProgress, error) {
	row := s.db.QueryRowContext(ctx, query, userID)

	progress, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrProgressNotFound
	}
	if err != nil {
		s.logger.Error("failed to get learner progress",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return progress, nil
}

// Upsert implements store.ProgressStore.Upsert.
func (s *PostgresProgressStore) Upsert(ctx context.Context, progress *domain.LearnerProgress) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learner_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = EXCLUDED.xp,
			level = EXCLUDED.level,
			level_title = EXCLUDED.level_title,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_activity_at = EXCLUDED.last_activity_at,
			total_reviews = EXCLUDED.total_reviews,
			correct_reviews = EXCLUDED.correct_reviews,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.UserID,
		progress.Progression.XP,
		progress.Progression.Level,
		progress.Progression.LevelTitle,
		progress.Streak.CurrentStreak,
		progress.Streak.LongestStreak,
		nullableTime(progress.Streak.LastActivityAt),
		progress.Performance.TotalReviews,
		progress.Performance.CorrectReviews,
		progress.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to upsert learner progress",
			slog.String("user_id", progress.UserID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// ListWithActiveStreak implements store.ProgressStore.ListWithActiveStreak.
func (s *PostgresProgressStore) ListWithActiveStreak(ctx context.Context) ([]*domain.LearnerProgress, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM learner_progress
		WHERE current_streak > 0
		ORDER BY user_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("failed to query active streaks",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var results []*domain.LearnerProgress
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			s.logger.Error("failed to scan learner progress row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		results = append(results, progress)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return results, nil
}

// WithTx implements store.ProgressStore.WithTx.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanProgress(row rowScanner) (*domain.LearnerProgress, error) {
	var progress domain.LearnerProgress
	var lastActivityAt sql.NullTime

	err := row.Scan(
		&progress.UserID,
		&progress.Progression.XP,
		&progress.Progression.Level,
		&progress.Progression.LevelTitle,
		&progress.Streak.CurrentStreak,
		&progress.Streak.LongestStreak,
		&lastActivityAt,
		&progress.Performance.TotalReviews,
		&progress.Performance.CorrectReviews,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastActivityAt.Valid {
		progress.Streak.LastActivityAt = lastActivityAt.Time
	}

	return &progress, nil
}
