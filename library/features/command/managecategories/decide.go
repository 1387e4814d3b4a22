package managecategories

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	failureNotFound      = "category not found"
	failureAlreadyExists = "category already exists"
	failureReferenced    = "category is referenced by books"
)

type state struct {
	everAdded  bool
	exists     bool
	name       string
	booksByIDs map[core.BookIDString]core.CategoryIDString
}

func project(history core.DomainEvents, categoryID core.CategoryIDString) state {
	s := state{booksByIDs: make(map[core.BookIDString]core.CategoryIDString)}

	for _, event := range history {
		switch e := event.(type) {
		case core.CategoryAdded:
			if e.CategoryID == categoryID {
				s.everAdded, s.exists, s.name = true, true, e.Name
			}

		case core.CategoryRenamed:
			if e.CategoryID == categoryID {
				s.name = e.Name
			}

		case core.CategoryRemoved:
			if e.CategoryID == categoryID {
				s.exists = false
			}

		case core.BookAdded:
			s.booksByIDs[e.BookID] = e.CategoryID

		case core.BookDetailsChanged:
			s.booksByIDs[e.BookID] = e.CategoryID

		case core.BookRemoved:
			delete(s.booksByIDs, e.BookID)
		}
	}

	return s
}

func (s state) isReferenced(categoryID core.CategoryIDString) bool {
	for _, referenced := range s.booksByIDs {
		if referenced == categoryID {
			return true
		}
	}

	return false
}

// DecideAdd adds the category. Adding it again with the same name is idempotent, ids are never reused.
func DecideAdd(history core.DomainEvents, command AddCommand) core.DecisionResult {
	s := project(history, command.CategoryID)

	if s.everAdded {
		if s.exists && s.name == command.Name {
			return core.IdempotentDecision()
		}

		return core.RejectedDecision(core.ConflictError(failureAlreadyExists))
	}

	return core.SuccessDecision(core.BuildCategoryAdded(command.CategoryID, command.Name, command.OccurredAt))
}

// DecideRename renames the category, an absent or identical name is idempotent.
func DecideRename(history core.DomainEvents, command RenameCommand) core.DecisionResult {
	s := project(history, command.CategoryID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	if command.Patch.Name == nil || *command.Patch.Name == s.name {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildCategoryRenamed(command.CategoryID, *command.Patch.Name, command.OccurredAt))
}

// DecideRemove removes the category unless a book references it.
func DecideRemove(history core.DomainEvents, command RemoveCommand) core.DecisionResult {
	s := project(history, command.CategoryID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	if s.isReferenced(command.CategoryID) {
		return core.RejectedDecision(core.ConflictError(failureReferenced))
	}

	return core.SuccessDecision(core.BuildCategoryRemoved(command.CategoryID, s.name, command.OccurredAt))
}

// BuildEventFilter selects the category's events.
func BuildEventFilter(categoryID core.CategoryIDString) eventstore.Filter {
	return categoryItem(categoryID).Finalize()
}

// BuildRemoveEventFilter selects the category's events and all book events.
func BuildRemoveEventFilter(categoryID core.CategoryIDString) eventstore.Filter {
	return categoryItem(categoryID).
		OrMatching().
		AnyEventTypeOf(
			core.BookAddedEventType,
			core.BookDetailsChangedEventType,
			core.BookRemovedEventType,
		).
		Finalize()
}

func categoryItem(categoryID core.CategoryIDString) eventstore.CompletedFilterItemBuilder {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CategoryAddedEventType,
			core.CategoryRenamedEventType,
			core.CategoryRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("CategoryID", categoryID))
}
