// Package store persists word entries and example phrases in an embedded
// SQLite database. Every operation opens its own connection, runs a single
// statement and closes it again.
package store
