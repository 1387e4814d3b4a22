package manageauthors

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// AddCommand adds a new author.
type AddCommand struct {
	AuthorID   core.AuthorIDString
	Name       string
	OccurredAt core.OccurredAtTS
}

func BuildAddCommand(authorID core.AuthorIDString, name string, occurredAt time.Time) AddCommand {
	return AddCommand{AuthorID: authorID, Name: name, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c AddCommand) CommandType() string { return "AddAuthor" }

func (c AddCommand) Validate() error {
	if err := core.RequireNonBlank("id", c.AuthorID); err != nil {
		return err
	}

	return core.RequireNonBlank("name", c.Name)
}

// Patch lists the updatable fields of an author, nil fields stay unchanged.
type Patch struct {
	Name *string
}

// RenameCommand applies a Patch to an author.
type RenameCommand struct {
	AuthorID   core.AuthorIDString
	Patch      Patch
	OccurredAt core.OccurredAtTS
}

func BuildRenameCommand(authorID core.AuthorIDString, patch Patch, occurredAt time.Time) RenameCommand {
	return RenameCommand{AuthorID: authorID, Patch: patch, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c RenameCommand) CommandType() string { return "RenameAuthor" }

func (c RenameCommand) Validate() error {
	if err := core.RequireNonBlank("id", c.AuthorID); err != nil {
		return err
	}

	if c.Patch.Name != nil {
		return core.RequireNonBlank("name", *c.Patch.Name)
	}

	return nil
}

// RemoveCommand removes an author.
type RemoveCommand struct {
	AuthorID   core.AuthorIDString
	OccurredAt core.OccurredAtTS
}

func BuildRemoveCommand(authorID core.AuthorIDString, occurredAt time.Time) RemoveCommand {
	return RemoveCommand{AuthorID: authorID, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c RemoveCommand) CommandType() string { return "RemoveAuthor" }

func (c RemoveCommand) Validate() error {
	return core.RequireNonBlank("id", c.AuthorID)
}
