// Package publisher forwards appended domain events to a RabbitMQ topic exchange.
//
// The event store stays the source of truth: events are published after a successful append,
// and a failed publication is logged but does not fail the command.
package publisher
