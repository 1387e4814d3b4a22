package core

import (
	"time"
)

// AuthorAddedEventType is the event type identifier.
const AuthorAddedEventType = "AuthorAdded"

// AuthorRenamedEventType is the event type identifier.
const AuthorRenamedEventType = "AuthorRenamed"

// AuthorRemovedEventType is the event type identifier.
const AuthorRemovedEventType = "AuthorRemoved"

// AuthorAdded records that an author was added to the catalog.
type AuthorAdded struct {
	AuthorID   AuthorIDString
	Name       string
	OccurredAt OccurredAtTS
}

func BuildAuthorAdded(authorID AuthorIDString, name string, occurredAt time.Time) AuthorAdded {
	return AuthorAdded{
		AuthorID:   authorID,
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e AuthorAdded) EventType() string {
	return AuthorAddedEventType
}

func (e AuthorAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e AuthorAdded) IsErrorEvent() bool {
	return false
}

// AuthorRenamed records that an author got a new name.
type AuthorRenamed struct {
	AuthorID   AuthorIDString
	Name       string
	OccurredAt OccurredAtTS
}

func BuildAuthorRenamed(authorID AuthorIDString, name string, occurredAt time.Time) AuthorRenamed {
	return AuthorRenamed{
		AuthorID:   authorID,
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e AuthorRenamed) EventType() string {
	return AuthorRenamedEventType
}

func (e AuthorRenamed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e AuthorRenamed) IsErrorEvent() bool {
	return false
}

// AuthorRemoved records that an author was removed from the catalog.
type AuthorRemoved struct {
	AuthorID   AuthorIDString
	Name       string
	OccurredAt OccurredAtTS
}

func BuildAuthorRemoved(authorID AuthorIDString, name string, occurredAt time.Time) AuthorRemoved {
	return AuthorRemoved{
		AuthorID:   authorID,
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e AuthorRemoved) EventType() string {
	return AuthorRemovedEventType
}

func (e AuthorRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e AuthorRemoved) IsErrorEvent() bool {
	return false
}
