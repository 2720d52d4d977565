package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

// itemColumns is the scan order shared by every item query.
const itemColumns = `id, user_id, ease_factor, consecutive_correct, interval_days,
	next_review_at, last_reviewed_at, level, mastered, lapse_count,
	last_confidence, created_at, updated_at`

// PostgresItemStore implements store.ItemStore using PostgreSQL.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a PostgreSQL implementation of ItemStore.
// The connection or transaction is initialized and managed by the caller.
// A nil logger falls back to the process default.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

var _ store.ItemStore = (*PostgresItemStore)(nil)

// Create implements store.ItemStore.Create.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.EaseFactor,
		item.ConsecutiveCorrect,
		item.IntervalDays,
		item.NextReviewAt,
		nullableTime(item.LastReviewedAt),
		item.Level,
		item.Mastered,
		item.LapseCount,
		item.LastConfidence,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create item",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ItemStore.GetByID.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.ItemStore.GetForUpdate.
func (s *PostgresItemStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, query, id)
}

func (s *PostgresItemStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx, query, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrItemNotFound
	}
	if err != nil {
		s.logger.Error("failed to get item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return item, nil
}

// ListByUser implements store.ItemStore.ListByUser.
func (s *PostgresItemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE user_id = $1
		ORDER BY next_review_at ASC, id ASC
	`
	return s.list(ctx, query, userID)
}

// ListDue implements store.ItemStore.ListDue.
func (s *PostgresItemStore) ListDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC, id ASC
	`
	return s.list(ctx, query, userID, asOf)
}

func (s *PostgresItemStore) list(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query items",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			s.logger.Error("failed to scan item row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return items, nil
}

// Update implements store.ItemStore.Update.
func (s *PostgresItemStore) Update(ctx context.Context, item *domain.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE items
		SET ease_factor = $1, consecutive_correct = $2, interval_days = $3,
			next_review_at = $4, last_reviewed_at = $5, level = $6,
			mastered = $7, lapse_count = $8, last_confidence = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := s.db.ExecContext(ctx, query,
		item.EaseFactor,
		item.ConsecutiveCorrect,
		item.IntervalDays,
		item.NextReviewAt,
		nullableTime(item.LastReviewedAt),
		item.Level,
		item.Mastered,
		item.LapseCount,
		item.LastConfidence,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		s.logger.Error("failed to update item",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrItemNotFound)
}

// Delete implements store.ItemStore.Delete.
func (s *PostgresItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrItemNotFound)
}

// WithTx implements store.ItemStore.WithTx.
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.EaseFactor,
		&item.ConsecutiveCorrect,
		&item.IntervalDays,
		&item.NextReviewAt,
		&lastReviewedAt,
		&item.Level,
		&item.Mastered,
		&item.LapseCount,
		&item.LastConfidence,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		item.LastReviewedAt = lastReviewedAt.Time
	}

	return &item, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
