// Package testdoubles provides spies for the observability interfaces of the eventstore package,
// plus a slog.Handler spy, to assert logging, metrics and tracing in tests.
package testdoubles
