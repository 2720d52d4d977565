// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the scheduling and progression logic, allowing the engine to remain
// independent of specific database technologies.
package store
