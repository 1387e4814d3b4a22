package core

import (
	"time"
)

// BookAddedEventType is the event type identifier.
const BookAddedEventType = "BookAdded"

// BookDetailsChangedEventType is the event type identifier.
const BookDetailsChangedEventType = "BookDetailsChanged"

// BookRemovedEventType is the event type identifier.
const BookRemovedEventType = "BookRemoved"

// BookAdded records that a book was added to the catalog, it starts out available.
type BookAdded struct {
	BookID     BookIDString
	Title      string
	AuthorID   AuthorIDString
	CategoryID CategoryIDString
	OccurredAt OccurredAtTS
}

func BuildBookAdded(
	bookID BookIDString,
	title string,
	authorID AuthorIDString,
	categoryID CategoryIDString,
	occurredAt time.Time,
) BookAdded {

	return BookAdded{
		BookID:     bookID,
		Title:      title,
		AuthorID:   authorID,
		CategoryID: categoryID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookAdded) EventType() string {
	return BookAddedEventType
}

func (e BookAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookAdded) IsErrorEvent() bool {
	return false
}

// BookDetailsChanged records that the title, author or category of a book changed.
type BookDetailsChanged struct {
	BookID     BookIDString
	Title      string
	AuthorID   AuthorIDString
	CategoryID CategoryIDString
	OccurredAt OccurredAtTS
}

func BuildBookDetailsChanged(
	bookID BookIDString,
	title string,
	authorID AuthorIDString,
	categoryID CategoryIDString,
	occurredAt time.Time,
) BookDetailsChanged {

	return BookDetailsChanged{
		BookID:     bookID,
		Title:      title,
		AuthorID:   authorID,
		CategoryID: categoryID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookDetailsChanged) EventType() string {
	return BookDetailsChangedEventType
}

func (e BookDetailsChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookDetailsChanged) IsErrorEvent() bool {
	return false
}

// BookRemoved records that a book was removed from the catalog.
type BookRemoved struct {
	BookID     BookIDString
	Title      string
	AuthorID   AuthorIDString
	CategoryID CategoryIDString
	OccurredAt OccurredAtTS
}

func BuildBookRemoved(
	bookID BookIDString,
	title string,
	authorID AuthorIDString,
	categoryID CategoryIDString,
	occurredAt time.Time,
) BookRemoved {

	return BookRemoved{
		BookID:     bookID,
		Title:      title,
		AuthorID:   authorID,
		CategoryID: categoryID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookRemoved) EventType() string {
	return BookRemovedEventType
}

func (e BookRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookRemoved) IsErrorEvent() bool {
	return false
}
