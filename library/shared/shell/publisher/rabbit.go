package publisher

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublishingFailed is returned when a message could not be handed to the broker.
var ErrPublishingFailed = errors.New("publishing message failed")

const exchangeKind = "topic"

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes JSON messages to one topic exchange. A nil *RabbitPublisher discards all messages.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	now      func() time.Time
}

// DialRabbit connects to url and declares the durable topic exchange.
// With an empty url it returns nil, a publisher that discards everything.
func DialRabbit(url, exchange string) (*RabbitPublisher, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, err
	}

	publisher := newRabbitPublisher(ch, exchange)
	publisher.conn = conn

	return publisher, nil
}

func newRabbitPublisher(ch amqpChannel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: exchange, now: time.Now}
}

// Publish sends body with the routing key.
func (r *RabbitPublisher) Publish(ctx context.Context, key string, messageID string, body []byte) error {
	if r == nil || r.ch == nil {
		return nil
	}

	err := r.ch.PublishWithContext(ctx, r.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    r.now(),
		Body:         body,
	})
	if err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	return nil
}

// Close closes channel and connection.
func (r *RabbitPublisher) Close() error {
	if r == nil || r.ch == nil {
		return nil
	}

	err := r.ch.Close()

	if r.conn != nil {
		err = errors.Join(err, r.conn.Close())
	}

	return err
}
