package srs

import (
	"errors"
	"fmt"
	"sort"
)

// Common parameter validation errors.
var (
	ErrInvalidEaseBounds   = errors.New("ease ceiling must exceed ease floor")
	ErrInvalidPenalty      = errors.New("incorrect penalty must exceed every streak bonus step")
	ErrInvalidBonusSteps   = errors.New("streak bonus steps must be non-negative and non-decreasing")
	ErrInvalidIntervalRows = errors.New("interval table must be ordered with non-decreasing days")
)

// IntervalRow maps an ease threshold to a review interval. The interval for
// an ease value is the Days of the last row whose MinEase it reaches.
type IntervalRow struct {
	MinEase float64
	Days    int
}

// Params defines all configurable parameters for the scheduling algorithm.
// Construct via NewDefaultParams or NewParams; a Params that passed
// Validate never produces an out-of-domain ease or interval.
type Params struct {
	// Core limits. Ease is hard-clamped into [EaseFloor, EaseCeiling];
	// the ceiling keeps intervals bounded under long correct streaks.
	EaseFloor   float64
	EaseCeiling float64

	// StreakBonus is the ease increment for a correct answer, indexed by
	// the new consecutive-correct count (position 0 = first correct).
	// Streaks past the end of the slice use the final step, so longer
	// runs earn the capped maximum.
	StreakBonus []float64

	// IncorrectPenalty is subtracted from ease on any incorrect answer.
	// It must exceed every bonus step: one mistake costs more than one
	// correct answer gains.
	IncorrectPenalty float64

	// IntervalTable maps ease to a base review interval in days, ordered
	// by MinEase ascending with non-decreasing Days.
	IntervalTable []IntervalRow
}

// ParamsConfig allows overriding the defaults when creating Params.
// Zero-valued fields keep their default.
type ParamsConfig struct {
	EaseFloor        float64
	EaseCeiling      float64
	StreakBonus      []float64
	IncorrectPenalty float64
	IntervalTable    []IntervalRow
}

// NewDefaultParams creates Params with the tuned default values.
func NewDefaultParams() *Params {
	return &Params{
		EaseFloor:   1.3,
		EaseCeiling: 10.0,

		// First correct earns 0.10; an established streak earns 0.20.
		StreakBonus: []float64{0.10, 0.15, 0.15, 0.20},

		IncorrectPenalty: 0.30,

		IntervalTable: []IntervalRow{
			{MinEase: 0.0, Days: 1},
			{MinEase: 1.5, Days: 2},
			{MinEase: 2.0, Days: 4},
			{MinEase: 2.5, Days: 7},
			{MinEase: 3.0, Days: 14},
			{MinEase: 4.0, Days: 30},
			{MinEase: 6.0, Days: 60},
		},
	}
}

// NewParams creates Params from a config, applying defaults for zero-valued
// fields and failing fast when the result is inconsistent.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.EaseFloor > 0 {
		params.EaseFloor = config.EaseFloor
	}
	if config.EaseCeiling > 0 {
		params.EaseCeiling = config.EaseCeiling
	}
	if config.StreakBonus != nil {
		params.StreakBonus = config.StreakBonus
	}
	if config.IncorrectPenalty > 0 {
		params.IncorrectPenalty = config.IncorrectPenalty
	}
	if config.IntervalTable != nil {
		params.IntervalTable = config.IntervalTable
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}

// Validate checks the parameter invariants the algorithm depends on.
func (p *Params) Validate() error {
	if p.EaseFloor < 1.0 {
		return fmt.Errorf("%w: floor %.2f below 1.0", ErrInvalidEaseBounds, p.EaseFloor)
	}
	if p.EaseCeiling <= p.EaseFloor {
		return fmt.Errorf("%w: floor %.2f, ceiling %.2f", ErrInvalidEaseBounds, p.EaseFloor, p.EaseCeiling)
	}

	if len(p.StreakBonus) == 0 {
		return ErrInvalidBonusSteps
	}
	if !sort.Float64sAreSorted(p.StreakBonus) || p.StreakBonus[0] < 0 {
		return ErrInvalidBonusSteps
	}

	maxBonus := p.StreakBonus[len(p.StreakBonus)-1]
	if p.IncorrectPenalty <= maxBonus {
		return fmt.Errorf("%w: penalty %.2f, largest bonus %.2f",
			ErrInvalidPenalty, p.IncorrectPenalty, maxBonus)
	}

	if len(p.IntervalTable) == 0 {
		return ErrInvalidIntervalRows
	}
	for i, row := range p.IntervalTable {
		if row.Days < 1 {
			return fmt.Errorf("%w: row %d has %d days", ErrInvalidIntervalRows, i, row.Days)
		}
		if i > 0 {
			prev := p.IntervalTable[i-1]
			if row.MinEase <= prev.MinEase || row.Days < prev.Days {
				return fmt.Errorf("%w: row %d out of order", ErrInvalidIntervalRows, i)
			}
		}
	}

	return nil
}
