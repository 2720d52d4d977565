package progress

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/events"
)

// ActivityKind identifies what kind of learning activity earned XP.
type ActivityKind string

// Recognized activity kinds and their base XP.
const (
	ActivityFlashcardReview ActivityKind = "flashcard_review"
	ActivityQuizQuestion    ActivityKind = "quiz_question"
	ActivityListening       ActivityKind = "listening_exercise"
	ActivityWriting         ActivityKind = "writing_exercise"
)

// Difficulty grades an activity for reward scaling.
type Difficulty string

// Recognized difficulty grades.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// partialCreditFactor scales the reward for an incorrect answer: showing
// up still earns something, but far less than recalling correctly.
const partialCreditFactor = 0.25

var baseXP = map[ActivityKind]int{
	ActivityFlashcardReview: 10,
	ActivityQuizQuestion:    15,
	ActivityListening:       20,
	ActivityWriting:         25,
}

var difficultyMultiplier = map[Difficulty]float64{
	DifficultyEasy:   1.0,
	DifficultyMedium: 1.5,
	DifficultyHard:   2.0,
}

// XPReward computes the XP earned by one activity: base XP for the kind,
// scaled by difficulty, reduced to partial credit when incorrect, rounded
// to the nearest integer with a floor of 0. Unknown kinds fall back to the
// flashcard base and unknown difficulties to the easy multiplier rather
// than failing; reward lookup is never an error path.
func XPReward(kind ActivityKind, difficulty Difficulty, wasCorrect bool) int {
	base, ok := baseXP[kind]
	if !ok {
		base = baseXP[ActivityFlashcardReview]
	}

	multiplier, ok := difficultyMultiplier[difficulty]
	if !ok {
		multiplier = difficultyMultiplier[DifficultyEasy]
	}

	credit := 1.0
	if !wasCorrect {
		credit = partialCreditFactor
	}

	reward := int(math.Round(float64(base) * multiplier * credit))
	if reward < 0 {
		return 0
	}
	return reward
}

// Ledger accumulates experience points and derives levels from the level
// table. XP only ever increases. Awarding is pure state transition;
// callers publish the LevelUp event via EmitLevelUp once the new state
// is durable, so a rolled-back award never reaches handlers.
type Ledger struct {
	table   LevelTable
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewLedger creates a Ledger over the given level table. The table must
// validate; pass events.EventEmitter to receive LevelUp events (nil
// disables emission).
func NewLedger(table LevelTable, emitter events.EventEmitter, logger *slog.Logger) (*Ledger, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		table:   table,
		emitter: emitter,
		logger:  logger.With("component", "progression_ledger"),
	}, nil
}

// AwardXP adds amount to the learner's XP and recomputes the level. It
// returns a new ProgressionState; the input is never mutated. The caller
// detects a level-up by comparing Level before and after, and emits it
// with EmitLevelUp after persisting the new state.
//
// Awards are commutative: any ordering of a set of awards produces the
// same final XP. Returns domain.ErrInvalidXPAmount for negative amounts.
func (l *Ledger) AwardXP(
	ctx context.Context,
	userID uuid.UUID,
	state domain.ProgressionState,
	amount int,
	reason string,
) (domain.ProgressionState, error) {
	if amount < 0 {
		return state, domain.ErrInvalidXPAmount
	}

	next := domain.ProgressionState{
		XP:         state.XP + amount,
		Level:      0,
		LevelTitle: "",
	}
	next.Level = l.table.LevelFor(next.XP)
	next.LevelTitle = l.table[next.Level].Title

	if next.Level > state.Level {
		l.logger.Info("level up",
			"user_id", userID,
			"from_level", state.Level,
			"to_level", next.Level,
			"xp", next.XP,
			"reason", reason)
	}

	return next, nil
}

// Lookup returns the level and title for an XP total without mutating
// anything. Used when rehydrating persisted state.
func (l *Ledger) Lookup(xp int) (int, string) {
	level := l.table.LevelFor(xp)
	return level, l.table[level].Title
}

// EmitLevelUp publishes a LevelUp event for the given state. Call it
// exactly once per boundary-crossing award, after the awarded state has
// been committed.
func (l *Ledger) EmitLevelUp(ctx context.Context, userID uuid.UUID, state domain.ProgressionState) {
	if l.emitter == nil {
		return
	}

	event, err := events.NewEvent(events.EventTypeLevelUp, events.LevelUpPayload{
		UserID:   userID,
		NewLevel: state.Level,
		Title:    state.LevelTitle,
	})
	if err != nil {
		l.logger.Error("failed to build level up event", "error", err)
		return
	}

	if err := l.emitter.EmitEvent(ctx, event); err != nil {
		// Event consumers are advisory; a failing handler must not fail
		// the award itself.
		l.logger.Error("failed to emit level up event", "error", err)
	}
}
