// Package wiring stacks the shell decorators around core handlers: core, then snapshots for queries that
// support them, then observability.
package wiring
