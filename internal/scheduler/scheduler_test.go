package scheduler

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain/srs"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, now time.Time) *Scheduler {
	t.Helper()
	return NewScheduler(srs.NewDefaultService(), srs.FrozenClock{T: now}, slog.Default())
}

func addTestItem(t *testing.T, s *Scheduler, dueAt time.Time) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(uuid.New(), uuid.New(), dueAt)
	require.NoError(t, err)
	s.Add(item)
	return item
}

func TestRecordAnswerUnknownItem(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)

	_, err := s.RecordAnswer(uuid.New(), true, 0.5)

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestRecordAnswerAppliesEaseModelOnce(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)
	item := addTestItem(t, s, testNow)

	updated, err := s.RecordAnswer(item.ID, true, 0.7)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.ConsecutiveCorrect)
	assert.Greater(t, updated.EaseFactor, domain.DefaultEaseFactor)
	assert.True(t, updated.NextReviewAt.After(testNow))

	// The scheduler's view reflects the update.
	current, err := s.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.EaseFactor, current.EaseFactor)
}

func TestRecordAnswerRejectsBackwardsClock(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)
	item := addTestItem(t, s, testNow)

	_, err := s.RecordAnswer(item.ID, true, 0.5)
	require.NoError(t, err)

	// Rewind the clock and try again.
	past := NewScheduler(srs.NewDefaultService(), srs.FrozenClock{T: testNow.Add(-time.Hour)}, slog.Default())
	current, err := s.Get(item.ID)
	require.NoError(t, err)
	past.Add(current)

	_, err = past.RecordAnswer(item.ID, true, 0.5)
	assert.ErrorIs(t, err, domain.ErrInvalidTimestamp)
}

func TestDueItemsOrderingIsDeterministic(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)

	later := addTestItem(t, s, testNow.Add(-1*time.Hour))
	earliest := addTestItem(t, s, testNow.Add(-3*time.Hour))
	middle := addTestItem(t, s, testNow.Add(-2*time.Hour))
	addTestItem(t, s, testNow.Add(48*time.Hour)) // not due

	due := s.DueItems(testNow)

	require.Len(t, due, 3)
	assert.Equal(t, earliest.ID, due[0].ID)
	assert.Equal(t, middle.ID, due[1].ID)
	assert.Equal(t, later.ID, due[2].ID)

	// Repeated queries over unchanged state return the same order.
	again := s.DueItems(testNow)
	for i := range due {
		assert.Equal(t, due[i].ID, again[i].ID)
	}
}

func TestDueItemsTieBreaksByID(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)

	sameInstant := testNow.Add(-time.Hour)
	for i := 0; i < 5; i++ {
		addTestItem(t, s, sameInstant)
	}

	due := s.DueItems(testNow)
	require.Len(t, due, 5)
	for i := 1; i < len(due); i++ {
		assert.Less(t, due[i-1].ID.String(), due[i].ID.String(),
			"equal due times must order by item ID")
	}
}

func TestDueItemsBoundaryInclusive(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)
	item := addTestItem(t, s, testNow)

	due := s.DueItems(testNow)
	require.Len(t, due, 1, "an item due exactly at asOf is due")
	assert.Equal(t, item.ID, due[0].ID)
}

func TestIsMastered(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)
	item := addTestItem(t, s, testNow)

	mastered, err := s.IsMastered(item.ID)
	require.NoError(t, err)
	assert.False(t, mastered)

	_, err = s.IsMastered(uuid.New())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMasteryThroughScheduler(t *testing.T) {
	t.Parallel()

	// Advance the clock day by day so each answer is later than the last.
	item, err := domain.NewItem(uuid.New(), uuid.New(), testNow)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		s := newTestScheduler(t, testNow.AddDate(0, 0, i+1))
		s.Add(item)
		item, err = s.RecordAnswer(item.ID, true, 0.9)
		require.NoError(t, err)
	}

	assert.True(t, item.Mastered)
	assert.Equal(t, domain.MaxLevel, item.Level)
}

func TestResetClearsMasteryAndSchedule(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)
	item := addTestItem(t, s, testNow)

	// Push the item into a non-default state first, including a lapse.
	_, err := s.RecordAnswer(item.ID, false, 0.2)
	require.NoError(t, err)
	updated, err := s.RecordAnswer(item.ID, true, 0.9)
	require.NoError(t, err)
	require.Equal(t, 1, updated.LapseCount)

	reset, err := s.Reset(item.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultEaseFactor, reset.EaseFactor)
	assert.Equal(t, 0, reset.ConsecutiveCorrect)
	assert.False(t, reset.Mastered)
	assert.True(t, reset.IsDue(testNow), "reset item is due immediately")

	// Lapse history survives so session ordering still sees the item as
	// error-prone.
	assert.Equal(t, 1, reset.LapseCount)
	assert.False(t, reset.LastReviewedAt.IsZero())

	_, err = s.Reset(uuid.New())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestLoadReplacesItemSet(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, testNow)
	addTestItem(t, s, testNow)
	require.Equal(t, 1, s.Len())

	first, err := domain.NewItem(uuid.New(), uuid.New(), testNow)
	require.NoError(t, err)
	second, err := domain.NewItem(uuid.New(), uuid.New(), testNow)
	require.NoError(t, err)

	s.Load([]*domain.Item{first, second})

	assert.Equal(t, 2, s.Len())
	_, err = s.Get(first.ID)
	assert.NoError(t, err)
}
