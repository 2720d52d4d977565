package srs

import (
	"math"
	"time"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

// clampEase coerces an ease factor into the configured domain. NaN and
// infinities collapse to the floor so a corrupt stored value can never
// poison subsequent scheduling.
func clampEase(ease float64, params *Params) float64 {
	if math.IsNaN(ease) || math.IsInf(ease, 0) {
		return params.EaseFloor
	}
	if ease < params.EaseFloor {
		return params.EaseFloor
	}
	if ease > params.EaseCeiling {
		return params.EaseCeiling
	}
	return ease
}

// streakBonus returns the ease increment earned by the given
// consecutive-correct count. Streaks beyond the configured steps earn the
// final, capped step.
func streakBonus(consecutiveCorrect int, params *Params) float64 {
	if consecutiveCorrect < 1 {
		return 0
	}
	if consecutiveCorrect > len(params.StreakBonus) {
		return params.StreakBonus[len(params.StreakBonus)-1]
	}
	return params.StreakBonus[consecutiveCorrect-1]
}

// calculateNewEaseFactor determines the next ease factor for one answer.
//
// A correct answer adds the streak bonus for the new consecutive-correct
// count; an incorrect answer subtracts the fixed penalty. The result is
// always clamped into [EaseFloor, EaseCeiling], so no sequence of answers
// can push ease below the floor or past the ceiling.
func calculateNewEaseFactor(
	priorEase float64,
	correct bool,
	newConsecutiveCorrect int,
	params *Params,
) float64 {
	ease := clampEase(priorEase, params)

	if correct {
		ease += streakBonus(newConsecutiveCorrect, params)
	} else {
		ease -= params.IncorrectPenalty
	}

	return clampEase(ease, params)
}

// baseInterval maps an ease factor to a review interval in days using the
// configured table: the last row whose MinEase the ease reaches wins. The
// mapping is non-decreasing in ease, so easier items always wait at least
// as long as harder ones.
func baseInterval(ease float64, params *Params) int {
	days := params.IntervalTable[0].Days
	for _, row := range params.IntervalTable {
		if ease < row.MinEase {
			break
		}
		days = row.Days
	}
	return days
}

// calculateNextItem applies one answer to an item and returns the updated
// copy. The input item is never mutated.
//
// The full transition, in order:
//   - consecutive-correct increments on a correct answer, resets to 0 on
//     an incorrect one (which also counts a lapse)
//   - ease moves by bonus or penalty and is clamped into domain
//   - the interval is looked up from the new ease and the next review is
//     scheduled that many days after now
//   - the level is re-projected from the new ease; mastery holds only at
//     the top level with the latest answer correct, so any incorrect
//     answer clears it
func calculateNextItem(
	item *domain.Item,
	correct bool,
	confidence float64,
	now time.Time,
	params *Params,
) *domain.Item {
	next := item.Clone()

	if correct {
		next.ConsecutiveCorrect = item.ConsecutiveCorrect + 1
	} else {
		next.ConsecutiveCorrect = 0
		next.LapseCount = item.LapseCount + 1
	}

	next.EaseFactor = calculateNewEaseFactor(item.EaseFactor, correct, next.ConsecutiveCorrect, params)
	next.IntervalDays = baseInterval(next.EaseFactor, params)
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)

	next.Level = domain.LevelForEase(next.EaseFactor)
	next.Mastered = correct && next.Level == domain.MaxLevel

	next.LastConfidence = confidence
	next.LastReviewedAt = now
	next.UpdatedAt = now

	return next
}
