// Package core holds the pure domain of the library ledger: the domain events, the decision
// result of Decide functions and the domain error taxonomy.
//
// Nothing in here talks to the event store, all functions are deterministic.
package core
