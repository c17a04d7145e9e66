// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store and internal/job packages.
// All implementations accept a store.DBTX so they can run against either a
// database pool or an open transaction, and map driver errors to the sentinel
// errors defined in the store package.
package postgres
