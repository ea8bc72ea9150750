// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// It also owns the shared pieces every implementation relies on: the DBTX
// abstraction over *sql.DB and *sql.Tx, RunInTransaction, and the error
// taxonomy (ErrNotFound, ErrDuplicate and their entity-specific variants).
package store
