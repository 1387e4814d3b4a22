package managebooks

import (
	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

const (
	failureNotFound         = "book not found"
	failureAlreadyExists    = "book already exists"
	failureHasOpenLoan      = "book has an open loan"
	failureAuthorNotFound   = "author not found"
	failureCategoryNotFound = "category not found"
)

type details struct {
	title      string
	authorID   core.AuthorIDString
	categoryID core.CategoryIDString
}

type state struct {
	everAdded  bool
	exists     bool
	book       details
	authors    map[core.AuthorIDString]bool
	categories map[core.CategoryIDString]bool
	openLoans  map[core.LoanIDString]struct{}
}

func project(history core.DomainEvents, bookID core.BookIDString) state {
	s := state{
		authors:    make(map[core.AuthorIDString]bool),
		categories: make(map[core.CategoryIDString]bool),
		openLoans:  make(map[core.LoanIDString]struct{}),
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAdded:
			if e.BookID == bookID {
				s.everAdded, s.exists = true, true
				s.book = details{title: e.Title, authorID: e.AuthorID, categoryID: e.CategoryID}
			}

		case core.BookDetailsChanged:
			if e.BookID == bookID {
				s.book = details{title: e.Title, authorID: e.AuthorID, categoryID: e.CategoryID}
			}

		case core.BookRemoved:
			if e.BookID == bookID {
				s.exists = false
			}

		case core.AuthorAdded:
			s.authors[e.AuthorID] = true

		case core.AuthorRemoved:
			s.authors[e.AuthorID] = false

		case core.CategoryAdded:
			s.categories[e.CategoryID] = true

		case core.CategoryRemoved:
			s.categories[e.CategoryID] = false

		case core.BookLentToPatron:
			if e.BookID == bookID {
				s.openLoans[e.LoanID] = struct{}{}
			}

		case core.BookReturnedByPatron:
			delete(s.openLoans, e.LoanID)
		}
	}

	return s
}

func (s state) checkRelations(target details) error {
	if !s.authors[target.authorID] {
		return core.ValidationError(failureAuthorNotFound)
	}

	if !s.categories[target.categoryID] {
		return core.ValidationError(failureCategoryNotFound)
	}

	return nil
}

// DecideAdd adds the book once author and category resolve. Adding identical details again is idempotent.
func DecideAdd(history core.DomainEvents, command AddCommand) core.DecisionResult {
	s := project(history, command.BookID)
	target := details{title: command.Title, authorID: command.AuthorID, categoryID: command.CategoryID}

	if s.everAdded {
		if s.exists && s.book == target {
			return core.IdempotentDecision()
		}

		return core.RejectedDecision(core.ConflictError(failureAlreadyExists))
	}

	if err := s.checkRelations(target); err != nil {
		return core.RejectedDecision(err)
	}

	return core.SuccessDecision(core.BuildBookAdded(
		command.BookID,
		command.Title,
		command.AuthorID,
		command.CategoryID,
		command.OccurredAt,
	))
}

// DecideChangeDetails applies the patch. Relations are only checked when they are supplied.
func DecideChangeDetails(history core.DomainEvents, command ChangeDetailsCommand) core.DecisionResult {
	s := project(history, command.BookID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	target := s.book

	if command.Patch.Title != nil {
		target.title = *command.Patch.Title
	}

	if command.Patch.AuthorID != nil {
		if !s.authors[*command.Patch.AuthorID] {
			return core.RejectedDecision(core.ValidationError(failureAuthorNotFound))
		}

		target.authorID = *command.Patch.AuthorID
	}

	if command.Patch.CategoryID != nil {
		if !s.categories[*command.Patch.CategoryID] {
			return core.RejectedDecision(core.ValidationError(failureCategoryNotFound))
		}

		target.categoryID = *command.Patch.CategoryID
	}

	if target == s.book {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildBookDetailsChanged(
		command.BookID,
		target.title,
		target.authorID,
		target.categoryID,
		command.OccurredAt,
	))
}

// DecideRemove removes the book unless it is currently lent.
func DecideRemove(history core.DomainEvents, command RemoveCommand) core.DecisionResult {
	s := project(history, command.BookID)

	if !s.exists {
		return core.RejectedDecision(core.NotFoundError(failureNotFound))
	}

	if len(s.openLoans) > 0 {
		return core.RejectedDecision(core.ConflictError(failureHasOpenLoan))
	}

	return core.SuccessDecision(core.BuildBookRemoved(
		command.BookID,
		s.book.title,
		s.book.authorID,
		s.book.categoryID,
		command.OccurredAt,
	))
}

// BuildAddEventFilter selects the book's events plus those of the referenced author and category.
func BuildAddEventFilter(command AddCommand) eventstore.Filter {
	return withRelations(bookItem(command.BookID), command.AuthorID, command.CategoryID).Finalize()
}

// BuildChangeDetailsEventFilter selects the book's events plus those of a newly referenced author or category.
func BuildChangeDetailsEventFilter(command ChangeDetailsCommand) eventstore.Filter {
	var authorID, categoryID string

	if command.Patch.AuthorID != nil {
		authorID = *command.Patch.AuthorID
	}

	if command.Patch.CategoryID != nil {
		categoryID = *command.Patch.CategoryID
	}

	return withRelations(bookItem(command.BookID), authorID, categoryID).Finalize()
}

// BuildRemoveEventFilter selects the book's events and loans.
func BuildRemoveEventFilter(bookID core.BookIDString) eventstore.Filter {
	return bookItem(bookID).
		OrMatching().
		AnyEventTypeOf(
			core.BookLentToPatronEventType,
			core.BookReturnedByPatronEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

func bookItem(bookID core.BookIDString) eventstore.CompletedFilterItemBuilder {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedEventType,
			core.BookDetailsChangedEventType,
			core.BookRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID))
}

// withRelations adds one item per non-empty id.
func withRelations(
	builder eventstore.CompletedFilterItemBuilder,
	authorID core.AuthorIDString,
	categoryID core.CategoryIDString,
) eventstore.CompletedFilterItemBuilder {

	if authorID != "" {
		builder = builder.
			OrMatching().
			AnyEventTypeOf(core.AuthorAddedEventType, core.AuthorRemovedEventType).
			AndAnyPredicateOf(eventstore.P("AuthorID", authorID))
	}

	if categoryID != "" {
		builder = builder.
			OrMatching().
			AnyEventTypeOf(core.CategoryAddedEventType, core.CategoryRemovedEventType).
			AndAnyPredicateOf(eventstore.P("CategoryID", categoryID))
	}

	return builder
}
