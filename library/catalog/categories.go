package catalog

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/features/command/managecategories"
	"github.com/AntonStoeckl/library-ledger-go/library/features/query/categories"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

func (c *Catalog) AddCategory(ctx context.Context, name string) (categories.Category, error) {
	categoryID, err := c.newID()
	if err != nil {
		return categories.Category{}, err
	}

	if _, err = c.addCategory.Handle(ctx, managecategories.BuildAddCommand(categoryID, name, c.deps.Now())); err != nil {
		return categories.Category{}, err
	}

	return categories.Category{CategoryID: categoryID, Name: name}, nil
}

// RenameCategory applies the patch and returns the current category.
func (c *Catalog) RenameCategory(ctx context.Context, categoryID core.CategoryIDString, patch managecategories.Patch) (categories.Category, error) {
	if _, err := c.renameCategory.Handle(ctx, managecategories.BuildRenameCommand(categoryID, patch, c.deps.Now())); err != nil {
		return categories.Category{}, err
	}

	return c.GetCategory(ctx, categoryID)
}

// RemoveCategory fails with a conflict while a book refers to the category.
func (c *Catalog) RemoveCategory(ctx context.Context, categoryID core.CategoryIDString) error {
	_, err := c.removeCategory.Handle(ctx, managecategories.BuildRemoveCommand(categoryID, c.deps.Now()))

	return err
}

func (c *Catalog) ListCategories(ctx context.Context) ([]categories.Category, error) {
	result, err := c.categories.Handle(ctx, categories.BuildQuery(""))
	if err != nil {
		return nil, err
	}

	return result.Items, nil
}

func (c *Catalog) GetCategory(ctx context.Context, categoryID core.CategoryIDString) (categories.Category, error) {
	if err := core.RequireNonBlank("id", categoryID); err != nil {
		return categories.Category{}, err
	}

	result, err := c.categories.Handle(ctx, categories.BuildQuery(categoryID))
	if err != nil {
		return categories.Category{}, err
	}

	return single(result.Items, failureCategoryNotFound)
}
