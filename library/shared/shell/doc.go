// Package shell is the imperative shell around the pure core: mapping between domain events and
// storable events, the Query -> Decide -> Append execution with retry, and the observability helpers
// shared by all command and query handlers.
package shell
