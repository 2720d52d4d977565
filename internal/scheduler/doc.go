// Package scheduler owns per-item review state for one learner: applying
// answer outcomes through the srs ease model, answering due-item queries
// with deterministic ordering, bucketing the review calendar, and
// optionally reordering a study session by recent performance.
//
// A Scheduler is a single-learner, in-memory aggregate. It performs no
// I/O and no locking; the host serializes answers per item and handles
// persistence around each call.
package scheduler
