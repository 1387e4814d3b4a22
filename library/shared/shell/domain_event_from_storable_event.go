package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

type domainEventDecoder func(payloadJSON []byte) (core.DomainEvent, error)

var domainEventDecoders = map[string]domainEventDecoder{
	core.AuthorAddedEventType:               decodeAs[core.AuthorAdded],
	core.AuthorRenamedEventType:             decodeAs[core.AuthorRenamed],
	core.AuthorRemovedEventType:             decodeAs[core.AuthorRemoved],
	core.CategoryAddedEventType:             decodeAs[core.CategoryAdded],
	core.CategoryRenamedEventType:           decodeAs[core.CategoryRenamed],
	core.CategoryRemovedEventType:           decodeAs[core.CategoryRemoved],
	core.PatronRegisteredEventType:          decodeAs[core.PatronRegistered],
	core.PatronDetailsChangedEventType:      decodeAs[core.PatronDetailsChanged],
	core.PatronRemovedEventType:             decodeAs[core.PatronRemoved],
	core.BookAddedEventType:                 decodeAs[core.BookAdded],
	core.BookDetailsChangedEventType:        decodeAs[core.BookDetailsChanged],
	core.BookRemovedEventType:               decodeAs[core.BookRemoved],
	core.BookLentToPatronEventType:          decodeAs[core.BookLentToPatron],
	core.BookReturnedByPatronEventType:      decodeAs[core.BookReturnedByPatron],
	core.LendingBookToPatronFailedEventType: decodeAs[core.LendingBookToPatronFailed],
	core.ReturningLoanFailedEventType:       decodeAs[core.ReturningLoanFailed],
}

// DomainEventsFrom converts multiple StorableEvents to DomainEvents, keeping their order.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	decode, ok := domainEventDecoders[storableEvent.EventType]
	if !ok {
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}

	return decode(storableEvent.PayloadJSON)
}

func decodeAs[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
