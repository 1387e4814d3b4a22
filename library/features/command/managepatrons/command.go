package managepatrons

import (
	"time"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

type RegisterCommand struct {
	PatronID   core.PatronIDString
	Name       string
	Email      string
	OccurredAt core.OccurredAtTS
}

func BuildRegisterCommand(patronID core.PatronIDString, name, email string, occurredAt time.Time) RegisterCommand {
	return RegisterCommand{
		PatronID:   patronID,
		Name:       name,
		Email:      email,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c RegisterCommand) CommandType() string { return "RegisterPatron" }

func (c RegisterCommand) Validate() error {
	if err := core.RequireNonBlank("id", c.PatronID); err != nil {
		return err
	}

	if err := core.RequireNonBlank("name", c.Name); err != nil {
		return err
	}

	return core.RequireNonBlank("email", c.Email)
}

// Patch lists the updatable fields of a patron, nil fields stay unchanged.
type Patch struct {
	Name  *string
	Email *string
}

type ChangeDetailsCommand struct {
	PatronID   core.PatronIDString
	Patch      Patch
	OccurredAt core.OccurredAtTS
}

func BuildChangeDetailsCommand(patronID core.PatronIDString, patch Patch, occurredAt time.Time) ChangeDetailsCommand {
	return ChangeDetailsCommand{PatronID: patronID, Patch: patch, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c ChangeDetailsCommand) CommandType() string { return "ChangePatronDetails" }

func (c ChangeDetailsCommand) Validate() error {
	if err := core.RequireNonBlank("id", c.PatronID); err != nil {
		return err
	}

	if c.Patch.Name != nil {
		if err := core.RequireNonBlank("name", *c.Patch.Name); err != nil {
			return err
		}
	}

	if c.Patch.Email != nil {
		return core.RequireNonBlank("email", *c.Patch.Email)
	}

	return nil
}

type RemoveCommand struct {
	PatronID   core.PatronIDString
	OccurredAt core.OccurredAtTS
}

func BuildRemoveCommand(patronID core.PatronIDString, occurredAt time.Time) RemoveCommand {
	return RemoveCommand{PatronID: patronID, OccurredAt: core.ToOccurredAt(occurredAt)}
}

func (c RemoveCommand) CommandType() string { return "RemovePatron" }

func (c RemoveCommand) Validate() error {
	return core.RequireNonBlank("id", c.PatronID)
}
