// Package history persists a log of executed requests in a local SQLite
// database, so past invocations can be listed and replayed by hand.
package history
