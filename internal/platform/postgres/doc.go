// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles query execution, mapping of driver errors to store errors, and
// data mapping between domain entities and database records.
//
// The schema lives in the embedded migrations directory and is applied with
// Migrate. All task queries are scoped by user_id; dynamic filters are built
// from fixed column names and numbered placeholders only.
package postgres
