package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain/srs"
)

// Scheduler holds the review state for one learner's item set and applies
// the ease model on each answer. Single-writer: callers must not invoke
// RecordAnswer concurrently for the same item.
type Scheduler struct {
	srsService srs.Service
	clock      srs.Clock
	items      map[uuid.UUID]*domain.Item
	logger     *slog.Logger
}

// NewScheduler creates an empty Scheduler for one learner.
func NewScheduler(srsService srs.Service, clock srs.Clock, logger *slog.Logger) *Scheduler {
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if clock == nil {
		clock = srs.NewClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		srsService: srsService,
		clock:      clock,
		items:      make(map[uuid.UUID]*domain.Item),
		logger:     logger.With(slog.String("component", "item_scheduler")),
	}
}

// Load replaces the scheduler's item set. Items are stored by reference;
// the host hands ownership to the scheduler for the session's lifetime.
func (s *Scheduler) Load(items []*domain.Item) {
	s.items = make(map[uuid.UUID]*domain.Item, len(items))
	for _, item := range items {
		s.items[item.ID] = item
	}
}

// Add inserts a single item into the scheduler's set.
func (s *Scheduler) Add(item *domain.Item) {
	s.items[item.ID] = item
}

// Get returns the item with the given ID.
// Returns domain.ErrItemNotFound for unknown IDs.
func (s *Scheduler) Get(itemID uuid.UUID) (*domain.Item, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return item, nil
}

// RecordAnswer applies one answer outcome to the item and returns the
// updated item. The ease model runs exactly once per call; there is no
// dedup key, so the caller must guarantee at-most-once invocation per
// logical answer.
//
// Returns domain.ErrItemNotFound for unknown IDs and
// domain.ErrInvalidTimestamp when the clock has run backwards relative to
// the item's last review.
func (s *Scheduler) RecordAnswer(itemID uuid.UUID, correct bool, confidence float64) (*domain.Item, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	now := s.clock.Now()
	updated, err := s.srsService.ReviewItem(item, correct, confidence, now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply answer to item %s: %w", itemID, err)
	}

	s.items[itemID] = updated

	s.logger.Debug("recorded answer",
		slog.String("item_id", itemID.String()),
		slog.Bool("correct", correct),
		slog.Float64("ease", updated.EaseFactor),
		slog.Int("level", updated.Level),
		slog.Time("next_review_at", updated.NextReviewAt))

	return updated, nil
}

// Reset returns an item to its starting scheduling state: default ease,
// no streak, due immediately. This is the only path that clears mastery
// without an incorrect answer. Lapse history (LapseCount, LastReviewedAt)
// survives a reset; session ordering uses it to keep error-prone items
// near the front.
func (s *Scheduler) Reset(itemID uuid.UUID) (*domain.Item, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	now := s.clock.Now()
	reset := item.Clone()
	reset.EaseFactor = domain.DefaultEaseFactor
	reset.ConsecutiveCorrect = 0
	reset.IntervalDays = 0
	reset.NextReviewAt = now
	reset.Level = domain.LevelForEase(domain.DefaultEaseFactor)
	reset.Mastered = false
	reset.LastConfidence = srs.NeutralConfidence
	reset.UpdatedAt = now

	s.items[itemID] = reset
	return reset, nil
}

// IsMastered reports whether the item has reached mastery.
// Returns domain.ErrItemNotFound for unknown IDs.
func (s *Scheduler) IsMastered(itemID uuid.UUID) (bool, error) {
	item, ok := s.items[itemID]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return item.Mastered, nil
}

// DueItems returns every item due at asOf, ordered by next review time
// ascending with item ID as the tiebreaker. The ordering is stable across
// calls with the same state, so clients can diff successive queries.
func (s *Scheduler) DueItems(asOf time.Time) []*domain.Item {
	due := make([]*domain.Item, 0, len(s.items))
	for _, item := range s.items {
		if item.IsDue(asOf) {
			due = append(due, item)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return strings.Compare(due[i].ID.String(), due[j].ID.String()) < 0
	})

	return due
}

// Items returns the full item set in no particular order.
func (s *Scheduler) Items() []*domain.Item {
	items := make([]*domain.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return items
}

// Len returns the number of items owned by the scheduler.
func (s *Scheduler) Len() int {
	return len(s.items)
}
