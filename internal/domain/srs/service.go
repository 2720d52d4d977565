package srs

import (
	"errors"
	"math"
	"time"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

// NeutralConfidence is used when a learner reports no confidence signal.
const NeutralConfidence = 0.5

// Common errors.
var (
	ErrNilItem = errors.New("review item cannot be nil")
)

// Service defines the ease-model state transition for one item. It is pure
// computation: callers pass in "now" and receive a new item, so the same
// inputs always produce the same schedule.
type Service interface {
	// ReviewItem applies a single answer to the item and returns the
	// updated copy. It must be invoked at most once per logical answer;
	// the engine keeps no dedup key, so retried delivery is the host's
	// problem to prevent.
	//
	// Returns domain.ErrInvalidTimestamp when now precedes the item's
	// last review. Confidence outside [0, 1] (or NaN) is coerced to the
	// neutral value rather than rejected.
	ReviewItem(item *domain.Item, correct bool, confidence float64, now time.Time) (*domain.Item, error)
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
// The params must have passed Validate (NewParams enforces this).
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// ReviewItem implements the Service interface.
func (s *defaultService) ReviewItem(
	item *domain.Item,
	correct bool,
	confidence float64,
	now time.Time,
) (*domain.Item, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	if !item.LastReviewedAt.IsZero() && now.Before(item.LastReviewedAt) {
		return nil, domain.ErrInvalidTimestamp
	}

	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		confidence = NeutralConfidence
	}

	return calculateNextItem(item, correct, confidence, now, s.params), nil
}
