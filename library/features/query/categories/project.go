package categories

import (
	"maps"
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/core"
)

// Project folds the category events into the current list, on top of base if given.
func Project(history core.DomainEvents, _ Query, maxSeq uint, base ...Categories) Categories {
	byID := make(map[core.CategoryIDString]Category)

	if len(base) > 0 {
		for _, category := range base[0].Items {
			byID[category.CategoryID] = category
		}
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.CategoryAdded:
			byID[e.CategoryID] = Category{CategoryID: e.CategoryID, Name: e.Name}

		case core.CategoryRenamed:
			if _, ok := byID[e.CategoryID]; ok {
				byID[e.CategoryID] = Category{CategoryID: e.CategoryID, Name: e.Name}
			}

		case core.CategoryRemoved:
			delete(byID, e.CategoryID)
		}
	}

	items := slices.AppendSeq(make([]Category, 0, len(byID)), maps.Values(byID))
	slices.SortFunc(items, func(a, b Category) int {
		return strings.Compare(a.CategoryID, b.CategoryID)
	})

	return Categories{Items: items, SequenceNumber: maxSeq}
}

func BuildEventFilter(query Query) eventstore.Filter {
	builder := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CategoryAddedEventType,
			core.CategoryRenamedEventType,
			core.CategoryRemovedEventType,
		)

	if query.CategoryID != "" {
		return builder.AndAnyPredicateOf(eventstore.P("CategoryID", query.CategoryID)).Finalize()
	}

	return builder.Finalize()
}
