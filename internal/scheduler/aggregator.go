package scheduler

import (
	"time"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain/srs"
)

// ReviewSchedule buckets a learner's items by when they come due. The
// buckets are disjoint: an item counts in exactly one of them, or in none
// when it is due beyond the two-week horizon.
type ReviewSchedule struct {
	DueToday    int `json:"due_today"`
	DueThisWeek int `json:"due_this_week"`
	DueNextWeek int `json:"due_next_week"`
}

// CalendarDay is one day of the forward-looking review calendar.
type CalendarDay struct {
	Date time.Time `json:"date"` // UTC midnight
	Due  int       `json:"due"`  // items coming due that day
}

// Schedule projects the item set onto due buckets relative to asOf, using
// UTC day boundaries:
//
//   - DueToday: due before the end of asOf's day, overdue included
//   - DueThisWeek: due on days 1 through 6 after asOf's day
//   - DueNextWeek: due on days 7 through 13 after asOf's day
//
// Recomputed on every call; never persisted.
func Schedule(items []*domain.Item, asOf time.Time) ReviewSchedule {
	endOfToday := srs.StartOfDay(asOf).AddDate(0, 0, 1)
	endOfWeek := endOfToday.AddDate(0, 0, 6)
	endOfNextWeek := endOfWeek.AddDate(0, 0, 7)

	var schedule ReviewSchedule
	for _, item := range items {
		due := item.NextReviewAt
		switch {
		case due.Before(endOfToday):
			schedule.DueToday++
		case due.Before(endOfWeek):
			schedule.DueThisWeek++
		case due.Before(endOfNextWeek):
			schedule.DueNextWeek++
		}
	}

	return schedule
}

// Calendar returns the per-day due counts for the given number of days
// starting at asOf's day. Items already overdue count on the first day.
func Calendar(items []*domain.Item, asOf time.Time, days int) []CalendarDay {
	if days <= 0 {
		return nil
	}

	start := srs.StartOfDay(asOf)
	calendar := make([]CalendarDay, days)
	for i := range calendar {
		calendar[i].Date = start.AddDate(0, 0, i)
	}

	for _, item := range items {
		offset := srs.DaysBetween(start, item.NextReviewAt)
		if offset < 0 {
			offset = 0 // overdue rolls into today
		}
		if offset < days {
			calendar[offset].Due++
		}
	}

	return calendar
}
