// Package domain defines the core learning entities: review items, learner
// progression, streaks, and review performance. Entities carry their own
// validation; all scheduling behavior lives in the srs, scheduler, and
// progress packages.
package domain
