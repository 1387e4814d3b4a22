package publisher

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-ledger-go/eventstore"
	"github.com/AntonStoeckl/library-ledger-go/library/shared/shell"
)

// RoutingKeyPrefix prefixes the event type in routing keys, e.g. "library.BookLentToPatron".
const RoutingKeyPrefix = "library."

const (
	logMsgPublishFailed = "publishing appended event failed"
	logAttrEventType    = "event_type"
	logAttrError        = "error"
)

// PublishesMessages is implemented by RabbitPublisher.
type PublishesMessages interface {
	Publish(ctx context.Context, key string, messageID string, body []byte) error
}

// Message is the JSON body of a published event.
type Message struct {
	EventType  string              `json:"eventType"`
	OccurredAt time.Time           `json:"occurredAt"`
	Payload    jsoniter.RawMessage `json:"payload"`
	Metadata   jsoniter.RawMessage `json:"metadata"`
}

// PublishingEventStore decorates an event store, publishing every successfully appended event.
type PublishingEventStore struct {
	shell.EventStore
	publisher PublishesMessages
	logger    shell.ContextualLogger
}

// NewPublishingEventStore wraps eventStore. A nil logger silences publication failures.
func NewPublishingEventStore(
	eventStore shell.EventStore,
	publisher PublishesMessages,
	logger shell.ContextualLogger,
) *PublishingEventStore {

	return &PublishingEventStore{EventStore: eventStore, publisher: publisher, logger: logger}
}

// Append appends, then publishes the events in order. Publication errors are only logged.
func (es *PublishingEventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := es.EventStore.Append(ctx, filter, expectedMaxSequenceNumber, event, additionalEvents...); err != nil {
		return err
	}

	for _, appended := range append([]eventstore.StorableEvent{event}, additionalEvents...) {
		if err := es.publish(ctx, appended); err != nil && es.logger != nil {
			es.logger.WarnContext(ctx, logMsgPublishFailed, logAttrEventType, appended.EventType, logAttrError, err.Error())
		}
	}

	return nil
}

func (es *PublishingEventStore) publish(ctx context.Context, event eventstore.StorableEvent) error {
	body, err := jsoniter.ConfigFastest.Marshal(Message{
		EventType:  event.EventType,
		OccurredAt: event.OccurredAt,
		Payload:    event.PayloadJSON,
		Metadata:   event.MetadataJSON,
	})
	if err != nil {
		return err
	}

	var messageID string
	if metadata, metadataErr := shell.EventMetadataFrom(event); metadataErr == nil {
		messageID = metadata.MessageID
	}

	return es.publisher.Publish(ctx, RoutingKeyPrefix+event.EventType, messageID, body)
}
