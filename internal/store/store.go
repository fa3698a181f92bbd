// Package store provides database access methods for all Inkwell
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import "time"

// Timestamps are persisted as integer milliseconds since the Unix epoch,
// normalized to UTC. SQLite has no native time type and storing integers
// keeps ordering and round-trips exact.

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
