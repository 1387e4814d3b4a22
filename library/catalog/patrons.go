package catalog

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managepatrons"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/patrons"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func (c *Catalog) RegisterPatron(ctx context.Context, name, email string) (patrons.Patron, error) {
	patronID, err := c.newID()
	if err != nil {
		return patrons.Patron{}, err
	}

	if _, err = c.registerPatron.Handle(ctx, managepatrons.BuildRegisterCommand(patronID, name, email, c.deps.Now())); err != nil {
		return patrons.Patron{}, err
	}

	return patrons.Patron{PatronID: patronID, Name: name, Email: email}, nil
}

func (c *Catalog) ChangePatronDetails(
	ctx context.Context,
	patronID core.PatronIDString,
	patch managepatrons.Patch,
) (patrons.Patron, error) {

	command := managepatrons.BuildChangeDetailsCommand(patronID, patch, c.deps.Now())
	if _, err := c.changePatronDetails.Handle(ctx, command); err != nil {
		return patrons.Patron{}, err
	}

	return c.GetPatron(ctx, patronID)
}

// RemovePatron fails with a conflict while the patron has open loans.
func (c *Catalog) RemovePatron(ctx context.Context, patronID core.PatronIDString) error {
	_, err := c.removePatron.Handle(ctx, managepatrons.BuildRemoveCommand(patronID, c.deps.Now()))

	return err
}

func (c *Catalog) ListPatrons(ctx context.Context) ([]patrons.Patron, error) {
	result, err := c.patrons.Handle(ctx, patrons.BuildQuery(""))
	if err != nil {
		return nil, err
	}

	return result.Items, nil
}

func (c *Catalog) GetPatron(ctx context.Context, patronID core.PatronIDString) (patrons.Patron, error) {
	if err := core.RequireNonBlank("id", patronID); err != nil {
		return patrons.Patron{}, err
	}

	result, err := c.patrons.Handle(ctx, patrons.BuildQuery(patronID))
	if err != nil {
		return patrons.Patron{}, err
	}

	return single(result.Items, failurePatronNotFound)
}
