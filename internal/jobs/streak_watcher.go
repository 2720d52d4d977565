// Package jobs contains the background jobs the server runs alongside the
// HTTP listener. Scheduling uses gocron; job logic stays in plain methods
// so tests can drive it directly.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain/srs"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/events"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/progress"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

// StreakWatcher periodically scans active streaks and emits a StreakAtRisk
// event for each learner who has not extended their streak late in the day.
// Each learner is notified at most once per calendar day.
type StreakWatcher struct {
	progressStore store.ProgressStore
	tracker       *progress.Tracker
	emitter       events.EventEmitter
	clock         srs.Clock
	logger        *slog.Logger

	scheduler *gocron.Scheduler

	mu       sync.Mutex
	notified map[uuid.UUID]time.Time // user -> day of last notification
}

// NewStreakWatcher creates a StreakWatcher. A nil clock defaults to the
// system clock, a nil logger to the process default.
func NewStreakWatcher(
	progressStore store.ProgressStore,
	tracker *progress.Tracker,
	emitter events.EventEmitter,
	clock srs.Clock,
	log *slog.Logger,
) *StreakWatcher {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if tracker == nil {
		panic("tracker cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if clock == nil {
		clock = srs.NewClock()
	}
	if log == nil {
		log = slog.Default()
	}

	return &StreakWatcher{
		progressStore: progressStore,
		tracker:       tracker,
		emitter:       emitter,
		clock:         clock,
		logger:        log.With(slog.String("component", "streak_watcher")),
		notified:      map[uuid.UUID]time.Time{},
	}
}

// Start schedules the hourly scan and begins running it in the background.
func (w *StreakWatcher) Start(ctx context.Context) error {
	w.scheduler = gocron.NewScheduler(time.UTC)

	_, err := w.scheduler.Every(1).Hour().Do(func() {
		if err := w.Scan(ctx); err != nil {
			w.logger.Error("streak scan failed",
				slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop halts the background scan. Safe to call without a prior Start.
func (w *StreakWatcher) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}

// Scan runs one pass over all active streaks, emitting StreakAtRisk events
// for learners whose streak expires at the next UTC midnight.
func (w *StreakWatcher) Scan(ctx context.Context) error {
	now := w.clock.Now()
	w.pruneNotified(now)

	records, err := w.progressStore.ListWithActiveStreak(ctx)
	if err != nil {
		return err
	}

	atRisk := 0
	for _, record := range records {
		if !w.tracker.IsAtRisk(record.Streak, now) {
			continue
		}
		if w.alreadyNotified(record.UserID, now) {
			continue
		}

		w.emitStreakAtRisk(ctx, record.UserID, record.Streak.CurrentStreak)
		w.markNotified(record.UserID, now)
		atRisk++
	}

	w.logger.Debug("streak scan complete",
		slog.Int("active_streaks", len(records)),
		slog.Int("newly_at_risk", atRisk))
	return nil
}

// pruneNotified drops entries from previous days so the map stays bounded
// by the number of learners notified today.
func (w *StreakWatcher) pruneNotified(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	today := srs.StartOfDay(now)
	for userID, day := range w.notified {
		if day.Before(today) {
			delete(w.notified, userID)
		}
	}
}

func (w *StreakWatcher) alreadyNotified(userID uuid.UUID, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	day, ok := w.notified[userID]
	return ok && day.Equal(srs.StartOfDay(now))
}

func (w *StreakWatcher) markNotified(userID uuid.UUID, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notified[userID] = srs.StartOfDay(now)
}

func (w *StreakWatcher) emitStreakAtRisk(ctx context.Context, userID uuid.UUID, currentStreak int) {
	event, err := events.NewEvent(events.EventTypeStreakAtRisk, events.StreakAtRiskPayload{
		UserID:        userID,
		CurrentStreak: currentStreak,
	})
	if err != nil {
		w.logger.Error("failed to build streak at risk event",
			slog.String("error", err.Error()))
		return
	}

	if err := w.emitter.EmitEvent(ctx, event); err != nil {
		w.logger.Warn("streak at risk handler failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
	}
}
