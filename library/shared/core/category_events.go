package core

import (
	"time"
)

// CategoryAddedEventType is the event type identifier.
const CategoryAddedEventType = "CategoryAdded"

// CategoryRenamedEventType is the event type identifier.
const CategoryRenamedEventType = "CategoryRenamed"

// CategoryRemovedEventType is the event type identifier.
const CategoryRemovedEventType = "CategoryRemoved"

// CategoryAdded records that a category was added to the catalog.
type CategoryAdded struct {
	CategoryID CategoryIDString
	Name       string
	OccurredAt OccurredAtTS
}

func BuildCategoryAdded(categoryID CategoryIDString, name string, occurredAt time.Time) CategoryAdded {
	return CategoryAdded{
		CategoryID: categoryID,
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e CategoryAdded) EventType() string {
	return CategoryAddedEventType
}

func (e CategoryAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e CategoryAdded) IsErrorEvent() bool {
	return false
}

// CategoryRenamed records that a category got a new name.
type CategoryRenamed struct {
	CategoryID CategoryIDString
	Name       string
	OccurredAt OccurredAtTS
}

func BuildCategoryRenamed(categoryID CategoryIDString, name string, occurredAt time.Time) CategoryRenamed {
	return CategoryRenamed{
		CategoryID: categoryID,
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e CategoryRenamed) EventType() string {
	return CategoryRenamedEventType
}

func (e CategoryRenamed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e CategoryRenamed) IsErrorEvent() bool {
	return false
}

// CategoryRemoved records that a category was removed from the catalog.
type CategoryRemoved struct {
	CategoryID CategoryIDString
	Name       string
	OccurredAt OccurredAtTS
}

func BuildCategoryRemoved(categoryID CategoryIDString, name string, occurredAt time.Time) CategoryRemoved {
	return CategoryRemoved{
		CategoryID: categoryID,
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e CategoryRemoved) EventType() string {
	return CategoryRemovedEventType
}

func (e CategoryRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e CategoryRemoved) IsErrorEvent() bool {
	return false
}
