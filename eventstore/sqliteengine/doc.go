// Package sqliteengine is an event store engine on top of an embedded SQLite database
// (modernc.org/sqlite, no cgo).
//
// The compare-and-set of Append is a single INSERT ... SELECT statement executed in an
// IMMEDIATE transaction, so SQLite's single-writer lock serializes all appends.
// Predicates are evaluated with json_extract on the payload column.
package sqliteengine
