package eventstore

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrEmptyEventType      = errors.New("event type must not be empty")
	ErrInvalidPayloadJSON  = errors.New("payload json is not valid")
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
)

const emptyMetadataJSON = "{}"

type StorableEvents = []StorableEvent

// StorableEvent is what the engines append and return: an event type, the time it occurred and two JSON
// documents. Mapping domain events to and from it is left to the caller.
// Build it with BuildStorableEvent or BuildStorableEventWithEmptyMetadata.
type StorableEvent struct {
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEvent fails with ErrEmptyEventType, ErrInvalidPayloadJSON or ErrInvalidMetadataJSON.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	event := StorableEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}

	if err := event.Validate(); err != nil {
		return StorableEvent{}, err
	}

	return event, nil
}

func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte(emptyMetadataJSON))
}

// Validate reports the first problem of an event assembled by hand.
func (e StorableEvent) Validate() error {
	switch {
	case e.EventType == "":
		return ErrEmptyEventType
	case !json.Valid(e.PayloadJSON):
		return ErrInvalidPayloadJSON
	case !json.Valid(e.MetadataJSON):
		return ErrInvalidMetadataJSON
	default:
		return nil
	}
}
