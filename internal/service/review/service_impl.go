package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain/srs"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/events"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/platform/logger"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/progress"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/scheduler"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

// txRunner runs fn inside a transaction. Production uses
// store.RunInTransaction over a *sql.DB; tests substitute a pass-through.
type txRunner func(ctx context.Context, fn store.TxFn) error

var _ ReviewService = (*reviewServiceImpl)(nil)

type reviewServiceImpl struct {
	runTx         txRunner
	itemStore     store.ItemStore
	progressStore store.ProgressStore
	srsService    srs.Service
	ledger        *progress.Ledger
	tracker       *progress.Tracker
	emitter       events.EventEmitter
	clock         srs.Clock
	logger        *slog.Logger
}

// NewReviewService creates the production ReviewService implementation.
// db carries the transactions; the stores are re-bound per transaction via
// WithTx. A nil clock defaults to the system clock, a nil logger to the
// process default.
func NewReviewService(
	db *sql.DB,
	itemStore store.ItemStore,
	progressStore store.ProgressStore,
	srsService srs.Service,
	ledger *progress.Ledger,
	tracker *progress.Tracker,
	emitter events.EventEmitter,
	clock srs.Clock,
	log *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}

	runTx := func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}

	return newReviewService(runTx, itemStore, progressStore, srsService, ledger, tracker, emitter, clock, log)
}

func newReviewService(
	runTx txRunner,
	itemStore store.ItemStore,
	progressStore store.ProgressStore,
	srsService srs.Service,
	ledger *progress.Ledger,
	tracker *progress.Tracker,
	emitter events.EventEmitter,
	clock srs.Clock,
	log *slog.Logger,
) ReviewService {
	if itemStore == nil {
		panic("itemStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if ledger == nil {
		panic("ledger cannot be nil")
	}
	if tracker == nil {
		panic("tracker cannot be nil")
	}
	if clock == nil {
		clock = srs.NewClock()
	}
	if log == nil {
		log = slog.Default()
	}

	return &reviewServiceImpl{
		runTx:         runTx,
		itemStore:     itemStore,
		progressStore: progressStore,
		srsService:    srsService,
		ledger:        ledger,
		tracker:       tracker,
		emitter:       emitter,
		clock:         clock,
		logger:        log.With(slog.String("component", "review_service")),
	}
}

// CreateItem implements ReviewService.CreateItem.
func (s *reviewServiceImpl) CreateItem(ctx context.Context, userID uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx)

	item, err := domain.NewItem(uuid.New(), userID, s.clock.Now())
	if err != nil {
		return nil, NewServiceError("create_item", "invalid item", err)
	}

	if err := s.itemStore.Create(ctx, item); err != nil {
		log.Error("failed to create item",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_item", "persisting item", err)
	}

	log.Debug("created review item",
		slog.String("user_id", userID.String()),
		slog.String("item_id", item.ID.String()))
	return item, nil
}

// SubmitAnswer implements ReviewService.SubmitAnswer.
func (s *reviewServiceImpl) SubmitAnswer(ctx context.Context, userID, itemID uuid.UUID, answer ReviewAnswer) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx)

	kind := answer.Kind
	if kind == "" {
		kind = progress.ActivityFlashcardReview
	}
	difficulty := answer.Difficulty
	if difficulty == "" {
		difficulty = progress.DifficultyEasy
	}

	now := s.clock.Now()
	var result *ReviewResult
	var newlyMastered bool
	var leveledFrom int

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		items := s.itemStore.WithTx(tx)
		progressStore := s.progressStore.WithTx(tx)

		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("loading item: %w", err)
		}
		if item.UserID != userID {
			return ErrItemNotOwned
		}
		wasMastered := item.Mastered

		// Run the scheduling transition through a single-item session so
		// answering here and answering in a bulk session behave identically.
		session := scheduler.NewScheduler(s.srsService, srs.FrozenClock{T: now}, log)
		session.Add(item)
		updated, err := session.RecordAnswer(itemID, answer.Correct, answer.Confidence)
		if err != nil {
			return err
		}

		if err := items.Update(ctx, updated); err != nil {
			return fmt.Errorf("persisting item: %w", err)
		}

		learnerProgress, err := s.loadOrInitProgress(ctx, progressStore, userID, now, true)
		if err != nil {
			return err
		}
		leveledFrom = learnerProgress.Progression.Level

		amount := progress.XPReward(kind, difficulty, answer.Correct)
		newState, err := s.ledger.AwardXP(ctx, userID, learnerProgress.Progression, amount, string(kind))
		if err != nil {
			return fmt.Errorf("awarding xp: %w", err)
		}

		newStreak, err := s.tracker.RecordActivity(learnerProgress.Streak, now)
		if err != nil {
			return fmt.Errorf("recording streak activity: %w", err)
		}

		learnerProgress.Progression = newState
		learnerProgress.Streak = newStreak
		learnerProgress.Performance = learnerProgress.Performance.RecordReview(answer.Correct)
		learnerProgress.UpdatedAt = now

		if err := progressStore.Upsert(ctx, learnerProgress); err != nil {
			return fmt.Errorf("persisting progress: %w", err)
		}

		newlyMastered = !wasMastered && updated.Mastered
		result = &ReviewResult{
			Item:      updated,
			Progress:  learnerProgress,
			XPAwarded: amount,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) ||
			errors.Is(err, ErrItemNotOwned) ||
			errors.Is(err, domain.ErrInvalidTimestamp) {
			return nil, err
		}
		log.Error("failed to submit answer",
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("submit_answer", "processing answer", err)
	}

	// Events fire after commit so handlers never observe rolled-back state.
	if result.Progress.Progression.Level > leveledFrom {
		s.ledger.EmitLevelUp(ctx, userID, result.Progress.Progression)
	}
	if newlyMastered {
		s.emitItemMastered(ctx, userID, itemID)
	}

	log.Debug("processed review answer",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Bool("correct", answer.Correct),
		slog.Int("xp_awarded", result.XPAwarded),
		slog.Int("level", result.Progress.Progression.Level),
		slog.Int("level_before", leveledFrom),
		slog.Time("next_review_at", result.Item.NextReviewAt))

	return result, nil
}

// DueItems implements ReviewService.DueItems.
func (s *reviewServiceImpl) DueItems(ctx context.Context, userID uuid.UUID, optimize bool) ([]*domain.Item, error) {
	due, err := s.itemStore.ListDue(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, NewServiceError("due_items", "listing due items", err)
	}

	if optimize {
		due = scheduler.OptimizeSession(due)
	}
	return due, nil
}

// Schedule implements ReviewService.Schedule.
func (s *reviewServiceImpl) Schedule(ctx context.Context, userID uuid.UUID, calendarDays int) (*ScheduleSummary, error) {
	items, err := s.itemStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("schedule", "listing items", err)
	}

	now := s.clock.Now()
	return &ScheduleSummary{
		Schedule: scheduler.Schedule(items, now),
		Calendar: scheduler.Calendar(items, now, calendarDays),
	}, nil
}

// RecordActivity implements ReviewService.RecordActivity.
func (s *reviewServiceImpl) RecordActivity(ctx context.Context, userID uuid.UUID, kind progress.ActivityKind, difficulty progress.Difficulty, correct bool) (*domain.LearnerProgress, error) {
	log := logger.FromContextOrDefault(ctx)
	now := s.clock.Now()

	var learnerProgress *domain.LearnerProgress
	var leveledFrom int
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progressStore := s.progressStore.WithTx(tx)

		current, err := s.loadOrInitProgress(ctx, progressStore, userID, now, true)
		if err != nil {
			return err
		}
		leveledFrom = current.Progression.Level

		amount := progress.XPReward(kind, difficulty, correct)
		newState, err := s.ledger.AwardXP(ctx, userID, current.Progression, amount, string(kind))
		if err != nil {
			return fmt.Errorf("awarding xp: %w", err)
		}

		newStreak, err := s.tracker.RecordActivity(current.Streak, now)
		if err != nil {
			return fmt.Errorf("recording streak activity: %w", err)
		}

		current.Progression = newState
		current.Streak = newStreak
		current.UpdatedAt = now

		if err := progressStore.Upsert(ctx, current); err != nil {
			return fmt.Errorf("persisting progress: %w", err)
		}

		learnerProgress = current
		return nil
	})
	if err != nil {
		log.Error("failed to record activity",
			slog.String("user_id", userID.String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		return nil, NewServiceError("record_activity", "crediting activity", err)
	}

	// As in SubmitAnswer, the event waits for the commit.
	if learnerProgress.Progression.Level > leveledFrom {
		s.ledger.EmitLevelUp(ctx, userID, learnerProgress.Progression)
	}

	return learnerProgress, nil
}

// Progress implements ReviewService.Progress.
func (s *reviewServiceImpl) Progress(ctx context.Context, userID uuid.UUID) (*domain.LearnerProgress, error) {
	learnerProgress, err := s.loadOrInitProgress(ctx, s.progressStore, userID, s.clock.Now(), false)
	if err != nil {
		return nil, NewServiceError("progress", "loading progress", err)
	}
	return learnerProgress, nil
}

// ResetItem implements ReviewService.ResetItem.
func (s *reviewServiceImpl) ResetItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx)
	now := s.clock.Now()

	var reset *domain.Item
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		items := s.itemStore.WithTx(tx)

		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("loading item: %w", err)
		}
		if item.UserID != userID {
			return ErrItemNotOwned
		}

		session := scheduler.NewScheduler(s.srsService, srs.FrozenClock{T: now}, log)
		session.Add(item)
		reset, err = session.Reset(itemID)
		if err != nil {
			return err
		}

		if err := items.Update(ctx, reset); err != nil {
			return fmt.Errorf("persisting item: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrItemNotOwned) {
			return nil, err
		}
		log.Error("failed to reset item",
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("reset_item", "resetting item", err)
	}

	return reset, nil
}

// StreakAtRisk implements ReviewService.StreakAtRisk.
func (s *reviewServiceImpl) StreakAtRisk(ctx context.Context, userID uuid.UUID, asOf time.Time) (bool, error) {
	learnerProgress, err := s.progressStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, NewServiceError("streak_at_risk", "loading progress", err)
	}

	return s.tracker.IsAtRisk(learnerProgress.Streak, asOf), nil
}

// loadOrInitProgress fetches the learner's progress aggregate, creating a
// zeroed one when none exists yet. forUpdate selects the row-locking read.
func (s *reviewServiceImpl) loadOrInitProgress(ctx context.Context, progressStore store.ProgressStore, userID uuid.UUID, now time.Time, forUpdate bool) (*domain.LearnerProgress, error) {
	var learnerProgress *domain.LearnerProgress
	var err error
	if forUpdate {
		learnerProgress, err = progressStore.GetForUpdate(ctx, userID)
	} else {
		learnerProgress, err = progressStore.Get(ctx, userID)
	}
	if errors.Is(err, store.ErrNotFound) {
		fresh, newErr := domain.NewLearnerProgress(userID, now)
		if newErr != nil {
			return nil, newErr
		}
		// Seed the derived level fields so a zero-XP learner still has a title.
		fresh.Progression.Level, fresh.Progression.LevelTitle = s.ledger.Lookup(0)
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	return learnerProgress, nil
}

func (s *reviewServiceImpl) emitItemMastered(ctx context.Context, userID, itemID uuid.UUID) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(events.EventTypeItemMastered, events.ItemMasteredPayload{
		UserID: userID,
		ItemID: itemID,
	})
	if err != nil {
		s.logger.Error("failed to build item mastered event",
			slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("item mastered handler failed",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
	}
}
