package openloansforpatron

import (
	"context"

	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (OpenLoans, error) {
	return shell.QueryAndProject(ctx, h.eventStore, query, BuildEventFilter(query), Project)
}
