package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/money_reconcile/internal/core/domain"
	portssvc "github.com/SscSPs/money_reconcile/internal/core/ports/services"
	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	contentTypeJSON  = "application/json"
	defaultHeartbeat = 10 * time.Second
)

// publishChannel is the part of *amqp.Channel the publisher needs.
type publishChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes reconciliation events as JSON to a topic exchange. The routing key
// is the event type, e.g. reconciliation.full.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
}

var _ portssvc.EventPublisher = (*AMQPPublisher)(nil)

// DialAMQPPublisher connects to the broker, retrying with exponential backoff for up to
// maxElapsed, and declares the exchange.
func DialAMQPPublisher(ctx context.Context, uri, exchange string, maxElapsed time.Duration) (*AMQPPublisher, error) {
	var conn *amqp.Connection
	connect := func() error {
		c, err := amqp.DialConfig(uri, amqp.Config{
			Heartbeat: defaultHeartbeat,
			Dial:      amqp.DefaultDial(3 * time.Second),
		})
		if err != nil {
			slog.WarnContext(ctx, "amqp: dial failed, retrying", slog.String("error", err.Error()))
			return err
		}
		conn = c
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxInterval = 10 * time.Second
	expBackoff.MaxElapsedTime = maxElapsed
	if err := backoff.Retry(connect, backoff.WithContext(expBackoff, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}
	p, err := newAMQPPublisher(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	slog.InfoContext(ctx, "amqp: publisher ready", slog.String("exchange", exchange))
	return p, nil
}

func newAMQPPublisher(ch publishChannel, exchange string) (*AMQPPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{channel: ch, exchange: exchange}, nil
}

// Publish sends event to the exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, event domain.ReconciliationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *AMQPPublisher) Close() error {
	chErr := p.channel.Close()
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return err
		}
	}
	return chErr
}
