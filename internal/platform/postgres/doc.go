// Package postgres provides PostgreSQL-specific implementations of the
// store interfaces. It handles query execution, mapping between domain
// entities and rows, and translation of driver errors into store errors.
// The schema lives in the embedded goose migrations.
package postgres
