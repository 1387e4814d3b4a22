package core

import (
	"time"
)

// PatronRegisteredEventType is the event type identifier.
const PatronRegisteredEventType = "PatronRegistered"

// PatronDetailsChangedEventType is the event type identifier.
const PatronDetailsChangedEventType = "PatronDetailsChanged"

// PatronRemovedEventType is the event type identifier.
const PatronRemovedEventType = "PatronRemoved"

// PatronRegistered records that a patron was registered.
type PatronRegistered struct {
	PatronID   PatronIDString
	Name       string
	Email      string
	OccurredAt OccurredAtTS
}

func BuildPatronRegistered(
	patronID PatronIDString,
	name string,
	email string,
	occurredAt time.Time,
) PatronRegistered {

	return PatronRegistered{
		PatronID:   patronID,
		Name:       name,
		Email:      email,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e PatronRegistered) EventType() string {
	return PatronRegisteredEventType
}

func (e PatronRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e PatronRegistered) IsErrorEvent() bool {
	return false
}

// PatronDetailsChanged records that the name or email of a patron changed.
type PatronDetailsChanged struct {
	PatronID   PatronIDString
	Name       string
	Email      string
	OccurredAt OccurredAtTS
}

func BuildPatronDetailsChanged(
	patronID PatronIDString,
	name string,
	email string,
	occurredAt time.Time,
) PatronDetailsChanged {

	return PatronDetailsChanged{
		PatronID:   patronID,
		Name:       name,
		Email:      email,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e PatronDetailsChanged) EventType() string {
	return PatronDetailsChangedEventType
}

func (e PatronDetailsChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e PatronDetailsChanged) IsErrorEvent() bool {
	return false
}

// PatronRemoved records that a patron was removed.
type PatronRemoved struct {
	PatronID   PatronIDString
	Name       string
	Email      string
	OccurredAt OccurredAtTS
}

func BuildPatronRemoved(
	patronID PatronIDString,
	name string,
	email string,
	occurredAt time.Time,
) PatronRemoved {

	return PatronRemoved{
		PatronID:   patronID,
		Name:       name,
		Email:      email,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e PatronRemoved) EventType() string {
	return PatronRemovedEventType
}

func (e PatronRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e PatronRemoved) IsErrorEvent() bool {
	return false
}
