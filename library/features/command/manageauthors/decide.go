package manageauthors

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	failureNotFound      = "author not found"
	failureAlreadyExists = "author already exists"
	failureReferenced    = "author is referenced by books"
)

type state struct {
	everAdded  bool
	exists     bool
	name       string
	booksByIDs map[core.BookIDString]core.AuthorIDString
}

func project(history core.DomainEvents, authorID core.AuthorIDString) state {
	s := state{booksByIDs: make(map[core.BookIDString]core.AuthorIDString)}

	for _, event := range history {
		switch e := event.(type) {
		case core.AuthorAdded:
			if e.AuthorID == authorID {
				s.everAdded, s.exists, s.name = true, true, e.Name
			}

		case core.AuthorRenamed:
			if e.AuthorID == authorID {
				s.name = e.Name
			}

		case core.AuthorRemoved:
			if e.AuthorID == authorID {
				s.exists = false
			}

		case core.BookAdded:
			s.booksByIDs[e.BookID] = e.AuthorID

		case core.BookDetailsChanged:
			s.booksByIDs[e.BookID] = e.AuthorID

		case core.BookRemoved:
			delete(s.booksByIDs, e.BookID)
		}
	}

	return s
}

func (s state) isReferenced(authorID core.AuthorIDString) bool {
	for _, referenced := range s.booksByIDs {
		if referenced == authorID {
			return true
		}
	}

	return false
}

// DecideAdd adds the author. Adding it again with the same name is idempotent, ids are never reused.
func DecideAdd(history core.DomainEvents, command AddCommand) core.DecisionResult {
	s := project(history, command.AuthorID)

	if s.everAdded {
		if s.exists && s.name == command.Name {
			return core.IdempotentDecision()
		}

		return core.RejectedDecision(core.ConflictError(failureAlreadyExists))
	}

	return core.SuccessDecision(core.BuildAuthorAdded(command.AuthorID, command.Name, command.OccurredAt))
}

// DecideRename renames the author, an absent or identical name is idempotent.
func DecideRename(history core.DomainEvents, command RenameCommand) core.DecisionResult {
	s := project(history, command.AuthorID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	if command.Patch.Name == nil || *command.Patch.Name == s.name {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildAuthorRenamed(command.AuthorID, *command.Patch.Name, command.OccurredAt))
}

// DecideRemove removes the author unless a book references it.
func DecideRemove(history core.DomainEvents, command RemoveCommand) core.DecisionResult {
	s := project(history, command.AuthorID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	if s.isReferenced(command.AuthorID) {
		return core.RejectedDecision(core.ConflictError(failureReferenced))
	}

	return core.SuccessDecision(core.BuildAuthorRemoved(command.AuthorID, s.name, command.OccurredAt))
}

// BuildEventFilter selects the author's events.
func BuildEventFilter(authorID core.AuthorIDString) eventstore.Filter {
	return authorItem(authorID).Finalize()
}

// BuildRemoveEventFilter selects the author's events and all book events.
func BuildRemoveEventFilter(authorID core.AuthorIDString) eventstore.Filter {
	return authorItem(authorID).
		OrMatching().
		AnyEventTypeOf(
			core.BookAddedEventType,
			core.BookDetailsChangedEventType,
			core.BookRemovedEventType,
		).
		Finalize()
}

func authorItem(authorID core.AuthorIDString) eventstore.CompletedFilterItemBuilder {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.AuthorAddedEventType,
			core.AuthorRenamedEventType,
			core.AuthorRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("AuthorID", authorID))
}
