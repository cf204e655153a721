// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Every read and write is scoped to the
// owning user: records of another user are reported as not found.
package store
