package progress

import (
	"fmt"
	"time"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain/srs"
)

// DefaultRiskHour is the UTC hour after which an unextended streak is
// reported as at risk.
const DefaultRiskHour = 18

// Tracker derives daily-activity streak transitions from timestamps. It
// holds no learner state of its own; callers pass the current StreakState
// and receive a new one.
type Tracker struct {
	riskHour int
}

// NewTracker creates a Tracker with the given risk hour (0-23).
func NewTracker(riskHour int) (*Tracker, error) {
	if riskHour < 0 || riskHour > 23 {
		return nil, fmt.Errorf("%w: risk hour %d outside 0-23",
			domain.ErrValidation, riskHour)
	}
	return &Tracker{riskHour: riskHour}, nil
}

// RecordActivity applies one qualifying activity at asOf and returns the
// updated streak state:
//
//   - never active before: the streak starts at 1
//   - same calendar day: no change, activity never double-counts
//   - exactly the next day: the streak extends by 1
//   - any larger gap: the streak restarts at 1
//
// LongestStreak tracks the high-water mark and so never decreases.
// Returns domain.ErrInvalidTimestamp when asOf precedes the recorded
// last activity.
func (t *Tracker) RecordActivity(state domain.StreakState, asOf time.Time) (domain.StreakState, error) {
	if !state.LastActivityAt.IsZero() && asOf.Before(state.LastActivityAt) {
		return state, domain.ErrInvalidTimestamp
	}

	next := state

	switch {
	case state.LastActivityAt.IsZero():
		next.CurrentStreak = 1
	default:
		switch gap := srs.DaysBetween(state.LastActivityAt, asOf); {
		case gap == 0:
			// Same-day activity, streak already counted today.
		case gap == 1:
			next.CurrentStreak = state.CurrentStreak + 1
		default:
			next.CurrentStreak = 1
		}
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastActivityAt = asOf

	return next, nil
}

// IsAtRisk reports whether the learner's streak will break unless they act
// today: there is an active streak, no activity has been recorded on
// asOf's calendar day, and the day has progressed past the risk hour.
// Purely advisory; never mutates state.
func (t *Tracker) IsAtRisk(state domain.StreakState, asOf time.Time) bool {
	if state.CurrentStreak == 0 || state.LastActivityAt.IsZero() {
		return false
	}

	gap := srs.DaysBetween(state.LastActivityAt, asOf)
	if gap < 1 {
		return false
	}

	return asOf.UTC().Hour() >= t.riskHour
}
