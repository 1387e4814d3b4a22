package managecategories

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// AddCommand adds a new category.
type AddCommand struct {
	CategoryID core.CategoryIDString
	Name       string
	OccurredAt core.OccurredAtTS
}

func BuildAddCommand(categoryID core.CategoryIDString, name string, occurredAt time.Time) AddCommand {
	return AddCommand{CategoryID: categoryID, Name: name, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c AddCommand) CommandType() string { return "AddCategory" }

func (c AddCommand) Validate() error {
	if err := core.RequireNonBlank("id", c.CategoryID); err != nil {
		return err
	}

	return core.RequireNonBlank("name", c.Name)
}

// Patch lists the updatable fields of a category, nil fields stay unchanged.
type Patch struct {
	Name *string
}

// RenameCommand applies a Patch to a category.
type RenameCommand struct {
	CategoryID core.CategoryIDString
	Patch      Patch
	OccurredAt core.OccurredAtTS
}

func BuildRenameCommand(categoryID core.CategoryIDString, patch Patch, occurredAt time.Time) RenameCommand {
	return RenameCommand{CategoryID: categoryID, Patch: patch, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c RenameCommand) CommandType() string { return "RenameCategory" }

func (c RenameCommand) Validate() error {
	if err := core.RequireNonBlank("id", c.CategoryID); err != nil {
		return err
	}

	if c.Patch.Name != nil {
		return core.RequireNonBlank("name", *c.Patch.Name)
	}

	return nil
}

// RemoveCommand removes a category.
type RemoveCommand struct {
	CategoryID core.CategoryIDString
	OccurredAt core.OccurredAtTS
}

func BuildRemoveCommand(categoryID core.CategoryIDString, occurredAt time.Time) RemoveCommand {
	return RemoveCommand{CategoryID: categoryID, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c RemoveCommand) CommandType() string { return "RemoveCategory" }

func (c RemoveCommand) Validate() error {
	return core.RequireNonBlank("id", c.CategoryID)
}
