package patrons

import (
	"maps"
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Project folds the patron events into the list of registered patrons, on top of base if given.
func Project(history core.DomainEvents, _ Query, maxSeq uint, base ...Patrons) Patrons {
	byID := make(map[core.PatronIDString]Patron)

	if len(base) > 0 {
		for _, patron := range base[0].Items {
			byID[patron.PatronID] = patron
		}
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.PatronRegistered:
			byID[e.PatronID] = Patron{PatronID: e.PatronID, Name: e.Name, Email: e.Email}

		case core.PatronDetailsChanged:
			if _, ok := byID[e.PatronID]; ok {
				byID[e.PatronID] = Patron{PatronID: e.PatronID, Name: e.Name, Email: e.Email}
			}

		case core.PatronRemoved:
			delete(byID, e.PatronID)
		}
	}

	items := slices.AppendSeq(make([]Patron, 0, len(byID)), maps.Values(byID))
	slices.SortFunc(items, func(a, b Patron) int {
		return strings.Compare(a.PatronID, b.PatronID)
	})

	return Patrons{Items: items, SequenceNumber: maxSeq}
}

func BuildEventFilter(query Query) eventstore.Filter {
	builder := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.PatronRegisteredEventType,
			core.PatronDetailsChangedEventType,
			core.PatronRemovedEventType,
		)

	if query.PatronID != "" {
		return builder.AndAnyPredicateOf(eventstore.P("PatronID", query.PatronID)).Finalize()
	}

	return builder.Finalize()
}
