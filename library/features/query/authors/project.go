package authors

import (
	"maps"
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Project folds the author events into the current list, on top of base if given.
func Project(history core.DomainEvents, _ Query, maxSeq uint, base ...Authors) Authors {
	byID := make(map[core.AuthorIDString]Author)

	if len(base) > 0 {
		for _, author := range base[0].Items {
			byID[author.AuthorID] = author
		}
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.AuthorAdded:
			byID[e.AuthorID] = Author{AuthorID: e.AuthorID, Name: e.Name}

		case core.AuthorRenamed:
			if _, ok := byID[e.AuthorID]; ok {
				byID[e.AuthorID] = Author{AuthorID: e.AuthorID, Name: e.Name}
			}

		case core.AuthorRemoved:
			delete(byID, e.AuthorID)
		}
	}

	items := slices.AppendSeq(make([]Author, 0, len(byID)), maps.Values(byID))
	slices.SortFunc(items, func(a, b Author) int {
		return strings.Compare(a.AuthorID, b.AuthorID)
	})

	return Authors{Items: items, SequenceNumber: maxSeq}
}

func BuildEventFilter(query Query) eventstore.Filter {
	builder := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.AuthorAddedEventType,
			core.AuthorRenamedEventType,
			core.AuthorRemovedEventType,
		)

	if query.AuthorID != "" {
		return builder.AndAnyPredicateOf(eventstore.P("AuthorID", query.AuthorID)).Finalize()
	}

	return builder.Finalize()
}
