package postgresengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
)

func Test_BuildSelectQuery(t *testing.T) {
	es := EventStore{eventTableName: defaultEventTableName}

	tests := []struct {
		name     string
		filter   eventstore.Filter
		contains []string
		excludes []string
	}{
		{
			name:     "empty filter selects everything ordered by sequence number",
			filter:   eventstore.BuildEventFilter().MatchingAnyEvent(),
			contains: []string{`FROM "events"`, `ORDER BY "sequence_number" ASC`},
			excludes: []string{"WHERE"},
		},
		{
			name: "event types are ORed and ANDed with ORed predicates",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("BookLentToPatron", "BookReturnedByPatron").
				AndAnyPredicateOf(eventstore.P("BookID", "b-1"), eventstore.P("PatronID", "p-1")).
				Finalize(),
			contains: []string{
				`("event_type" = 'BookLentToPatron') OR ("event_type" = 'BookReturnedByPatron')`,
				`payload @> '{"BookID":"b-1"}'::jsonb OR payload @> '{"PatronID":"p-1"}'::jsonb`,
			},
		},
		{
			name: "all predicates are ANDed",
			filter: eventstore.BuildEventFilter().
				Matching().
				AllPredicatesOf(eventstore.P("BookID", "b-1"), eventstore.P("PatronID", "p-1")).
				Finalize(),
			contains: []string{`payload @> '{"BookID":"b-1"}'::jsonb AND payload @> '{"PatronID":"p-1"}'::jsonb`},
		},
		{
			name: "predicate values are escaped",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyPredicateOf(eventstore.P("BookID", `it's "quoted"`)).
				Finalize(),
			contains: []string{`payload @> '{"BookID":"it''s \"quoted\""}'::jsonb`},
		},
		{
			name: "time and sequence boundaries",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("BookLentToPatron").
				OccurredFrom(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
				AndOccurredUntil(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)).
				Finalize().
				ReopenForSequenceFiltering().
				WithSequenceNumberHigherThan(5).
				Finalize(),
			contains: []string{
				`"occurred_at" >= '2024-01-01T00:00:00Z'`,
				`"occurred_at" <= '2024-01-31T23:59:59Z'`,
				`"sequence_number" > 5`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlQuery, err := es.buildSelectQuery(tt.filter)

			require.NoError(t, err)
			for _, fragment := range tt.contains {
				assert.Contains(t, sqlQuery, fragment)
			}
			for _, fragment := range tt.excludes {
				assert.NotContains(t, sqlQuery, fragment)
			}
		})
	}
}

func Test_BuildAppendQuery(t *testing.T) {
	es := EventStore{eventTableName: "library_events"}
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookLentToPatron").
		AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
		Finalize()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(
		"BookLentToPatron",
		time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		[]byte(`{"BookID":"b-1","Title":"L'Étranger"}`),
	)
	require.NoError(t, err)

	t.Run("single event", func(t *testing.T) {
		sqlQuery, buildErr := es.buildAppendQuery(eventstore.StorableEvents{event}, filter, 7)

		require.NoError(t, buildErr)
		assert.Contains(t, sqlQuery, `WITH context AS (SELECT MAX("sequence_number") AS "max_seq" FROM "library_events"`)
		assert.Contains(t, sqlQuery, `INSERT INTO "library_events" ("event_type", "occurred_at", "payload", "metadata")`)
		assert.Contains(t, sqlQuery, `(COALESCE("max_seq", 0) = 7)`)
		assert.Contains(t, sqlQuery, `'{"BookID":"b-1","Title":"L''Étranger"}'::jsonb`)
	})

	t.Run("multiple events", func(t *testing.T) {
		sqlQuery, buildErr := es.buildAppendQuery(eventstore.StorableEvents{event, event}, filter, 0)

		require.NoError(t, buildErr)
		assert.Contains(t, sqlQuery, "UNION ALL")
		assert.Contains(t, sqlQuery, `FROM "context", "vals"`)
		assert.Contains(t, sqlQuery, `(COALESCE("max_seq", 0) = 0)`)
	})
}

func Test_SchemaSQL_QuotesTableName(t *testing.T) {
	es := EventStore{eventTableName: "library_events"}

	schema := es.schemaSQL()

	assert.Contains(t, schema, `CREATE TABLE IF NOT EXISTS "library_events"`)
	assert.Contains(t, schema, `"library_events_payload_idx" ON "library_events" USING gin (payload jsonb_path_ops)`)
}
