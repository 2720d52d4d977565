package scheduler

import (
	"sort"
	"strings"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
)

// OptimizeSession reorders a due-item set so the items the learner is
// struggling with come first. The weighting favors items with low ease,
// a history of lapses, and low reported confidence. Due dates are never
// touched: this only changes presentation order within a session.
//
// Returns a new slice; the input and its items are not modified. Ties
// break by item ID so the ordering is deterministic.
func OptimizeSession(items []*domain.Item) []*domain.Item {
	ordered := make([]*domain.Item, len(items))
	copy(ordered, items)

	sort.Slice(ordered, func(i, j int) bool {
		wi, wj := sessionWeight(ordered[i]), sessionWeight(ordered[j])
		if wi != wj {
			return wi > wj
		}
		return strings.Compare(ordered[i].ID.String(), ordered[j].ID.String()) < 0
	})

	return ordered
}

// sessionWeight scores how urgently an item needs attention. Higher means
// earlier in the session.
func sessionWeight(item *domain.Item) float64 {
	// Lapse-heavy items dominate; ease divides so hard items (low ease)
	// score higher than easy ones at the same lapse count.
	weight := float64(item.LapseCount+1) / item.EaseFactor

	// A learner who reported low confidence last time gets the item
	// earlier, while full confidence leaves the weight untouched.
	weight += 1.0 - item.LastConfidence

	return weight
}
