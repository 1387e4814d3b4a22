// Package zerologadapter implements eventstore.Logger and eventstore.ContextualLogger with zerolog,
// mainly for human-readable console output during local development.
package zerologadapter
