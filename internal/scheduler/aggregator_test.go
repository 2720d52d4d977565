package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

func itemDueAt(t *testing.T, dueAt time.Time) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(uuid.New(), uuid.New(), dueAt)
	require.NoError(t, err)
	return item
}

func TestScheduleBucketsAreDisjoint(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)
	items := []*domain.Item{
		itemDueAt(t, asOf.AddDate(0, 0, -3)), // overdue -> today
		itemDueAt(t, asOf),                   // now -> today
		itemDueAt(t, asOf.AddDate(0, 0, 2)),  // this week
		itemDueAt(t, asOf.AddDate(0, 0, 5)),  // this week
		itemDueAt(t, asOf.AddDate(0, 0, 9)),  // next week
		itemDueAt(t, asOf.AddDate(0, 0, 20)), // beyond the horizon
	}

	sched := Schedule(items, asOf)

	assert.Equal(t, 2, sched.DueToday)
	assert.Equal(t, 2, sched.DueThisWeek)
	assert.Equal(t, 1, sched.DueNextWeek)

	// No item is counted twice and the horizon item is in no bucket.
	assert.Equal(t, len(items)-1, sched.DueToday+sched.DueThisWeek+sched.DueNextWeek)
}

func TestScheduleDayBoundaries(t *testing.T) {
	t.Parallel()

	// Late at night: "today" still runs to UTC midnight, not +24h.
	asOf := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	startOfTomorrow := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	lastTick := itemDueAt(t, startOfTomorrow.Add(-time.Nanosecond))
	firstOfTomorrow := itemDueAt(t, startOfTomorrow)

	sched := Schedule([]*domain.Item{lastTick, firstOfTomorrow}, asOf)

	assert.Equal(t, 1, sched.DueToday)
	assert.Equal(t, 1, sched.DueThisWeek)
}

func TestScheduleEmpty(t *testing.T) {
	t.Parallel()

	sched := Schedule(nil, time.Now().UTC())
	assert.Zero(t, sched.DueToday)
	assert.Zero(t, sched.DueThisWeek)
	assert.Zero(t, sched.DueNextWeek)
}

func TestCalendarRollsOverdueIntoFirstDay(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []*domain.Item{
		itemDueAt(t, asOf.AddDate(0, 0, -4)),
		itemDueAt(t, asOf.Add(-time.Hour)),
		itemDueAt(t, asOf.AddDate(0, 0, 1)),
		itemDueAt(t, asOf.AddDate(0, 0, 3)),
	}

	days := Calendar(items, asOf, 7)
	require.Len(t, days, 7)

	assert.Equal(t, 2, days[0].Due, "overdue items land on the first day")
	assert.Equal(t, 1, days[1].Due)
	assert.Equal(t, 0, days[2].Due)
	assert.Equal(t, 1, days[3].Due)

	// Dates are consecutive UTC midnights.
	for i, day := range days {
		want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		assert.True(t, day.Date.Equal(want), "day %d: got %v want %v", i, day.Date, want)
	}
}

func TestCalendarIgnoresItemsBeyondHorizon(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []*domain.Item{
		itemDueAt(t, asOf.AddDate(0, 0, 10)),
	}

	days := Calendar(items, asOf, 7)
	require.Len(t, days, 7)
	for _, day := range days {
		assert.Zero(t, day.Due)
	}
}
