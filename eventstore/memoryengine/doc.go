// Package memoryengine provides an in-memory engine of the event store.
//
// It has the same compare-and-set semantics as the SQL engines and is meant for tests,
// local development and demos. Nothing is persisted.
package memoryengine
