package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrCreatingSchemaFailed is returned when the events table could not be created.
var ErrCreatingSchemaFailed = errors.New("creating the events table failed")

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	occurred_at     TIMESTAMPTZ NOT NULL,
	event_type      TEXT NOT NULL,
	payload         JSONB NOT NULL,
	metadata        JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s (occurred_at);
CREATE INDEX IF NOT EXISTS %[4]s ON %[1]s USING gin (payload jsonb_path_ops);
`

func (es EventStore) schemaSQL() string {
	return fmt.Sprintf(
		schemaTemplate,
		pq.QuoteIdentifier(es.eventTableName),
		pq.QuoteIdentifier(es.eventTableName+"_event_type_idx"),
		pq.QuoteIdentifier(es.eventTableName+"_occurred_at_idx"),
		pq.QuoteIdentifier(es.eventTableName+"_payload_idx"),
	)
}

// CreateSchema creates the events table with its indexes if it does not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	if _, err := es.db.Exec(ctx, es.schemaSQL()); err != nil {
		es.logError(ctx, ErrCreatingSchemaFailed.Error(), err)

		return errors.Join(ErrCreatingSchemaFailed, err)
	}

	return nil
}
