package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

// ItemStore defines the interface for review item persistence.
type ItemStore interface {
	// Create saves a new item to the store. The item must be valid
	// according to domain validation rules.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// GetForUpdate retrieves an item with a row-level lock using
	// SELECT FOR UPDATE. Use within a transaction when the item will be
	// updated, to protect against concurrent reviews of the same item.
	// Returns ErrItemNotFound if the item does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// ListByUser retrieves all items belonging to a user, ordered by
	// next review time then ID for a stable listing.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error)

	// ListDue retrieves the user's items whose next review time is at or
	// before asOf, in the same stable order as ListByUser. Mastered items
	// are included; they still resurface on their long intervals.
	ListDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.Item, error)

	// Update persists the full scheduling state of an existing item.
	// Returns ErrItemNotFound if the item does not exist.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes an item from the store by its ID.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ItemStore bound to the provided transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ItemStore
}
