package srs

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

func TestReviewItemNilItem(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	_, err := svc.ReviewItem(nil, true, 0.5, time.Now().UTC())

	if !errors.Is(err, ErrNilItem) {
		t.Errorf("Expected ErrNilItem, got %v", err)
	}
}

func TestReviewItemRejectsBackwardsClock(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	item := newTestItem(t, now)

	first, err := svc.ReviewItem(item, true, 0.5, now)
	if err != nil {
		t.Fatalf("ReviewItem failed: %v", err)
	}

	_, err = svc.ReviewItem(first, true, 0.5, now.Add(-time.Hour))
	if !errors.Is(err, domain.ErrInvalidTimestamp) {
		t.Errorf("Expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestReviewItemCoercesConfidence(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		confidence float64
		expected   float64
	}{
		{name: "valid confidence kept", confidence: 0.8, expected: 0.8},
		{name: "negative coerced to neutral", confidence: -0.2, expected: NeutralConfidence},
		{name: "above one coerced to neutral", confidence: 1.5, expected: NeutralConfidence},
		{name: "NaN coerced to neutral", confidence: math.NaN(), expected: NeutralConfidence},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := newTestItem(t, now)

			updated, err := svc.ReviewItem(item, true, tc.confidence, now)
			if err != nil {
				t.Fatalf("ReviewItem failed: %v", err)
			}

			if updated.LastConfidence != tc.expected {
				t.Errorf("Expected confidence %v, got %v", tc.expected, updated.LastConfidence)
			}
		})
	}
}

func TestReviewItemWithCustomParams(t *testing.T) {
	t.Parallel()

	params, err := NewParams(ParamsConfig{EaseCeiling: 3.0})
	if err != nil {
		t.Fatalf("NewParams failed: %v", err)
	}
	svc := NewServiceWithParams(params)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	item := newTestItem(t, now)

	cur := item
	for i := 0; i < 20; i++ {
		cur, err = svc.ReviewItem(cur, true, 0.5, now.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("ReviewItem failed: %v", err)
		}
		if cur.EaseFactor > 3.0 {
			t.Fatalf("ease %v exceeded configured ceiling", cur.EaseFactor)
		}
	}
}
