// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores accept a store.DBTX so they run equally inside
// and outside a transaction; errors are mapped onto the store sentinels
// via MapError.
package postgres
