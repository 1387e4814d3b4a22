// Package eventstore provides core abstractions and types for event sourcing
// with dynamic event streams.
//
// This package defines the types shared by all engine implementations
// (postgresengine, sqliteengine, memoryengine): filters, storable events,
// snapshots, observability interfaces and common error definitions.
//
// The event store supports dynamic filtering of events based on:
//   - Event types
//   - JSON payload predicates
//   - Time ranges (occurred from/until)
//   - Sequence numbers (for incremental queries)
//
// Key types:
//   - Filter: Defines criteria for querying events
//   - StorableEvent: Represents an event that can be stored and retrieved
//   - StorableEvents: Collection of storable events
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.BookLentToPatronEventType,
//			core.BookReturnedByPatronEventType).
//		AndAnyPredicateOf(P("BookID", bookID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	newEvent, err := eventstore.BuildStorableEvent(eventType, time.Now(), payload, metadata)
//	err = store.Append(ctx, filter, maxSeq, newEvent)
package eventstore
