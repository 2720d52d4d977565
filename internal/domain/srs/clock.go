package srs

import "time"

// Clock supplies "now" to the engine. Business logic never reads the wall
// clock directly; the host injects a Clock so schedules are reproducible
// under test.
type Clock interface {
	Now() time.Time
}

// systemClock reads the real wall clock in UTC.
type systemClock struct{}

// NewClock returns a Clock backed by the system wall clock.
func NewClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// FrozenClock is a Clock pinned to a fixed instant, for tests and replays.
type FrozenClock struct {
	T time.Time
}

func (c FrozenClock) Now() time.Time {
	return c.T
}

// StartOfDay truncates t to midnight UTC. All calendar-day arithmetic in
// the engine uses UTC day boundaries; streak and due-bucket correctness
// depend on every component agreeing on this policy.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b at UTC
// midnight granularity. Same-day timestamps yield 0 regardless of the
// clock-time gap; the result is negative when b precedes a's day.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}
