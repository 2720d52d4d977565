// Package progress implements the learner progression side of the engine:
// the XP ledger with its table-driven levels, the activity reward schedule,
// and the daily streak tracker. Everything here is pure computation over
// state the host loads and persists.
package progress
