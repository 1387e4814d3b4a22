// Package librarytest has helpers for tests that need a populated event store.
package librarytest
