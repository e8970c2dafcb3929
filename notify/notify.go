// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/danielhkuo/quickly-elect/election"
)

const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher forwards engine events to a fanout exchange as JSON.
type Publisher struct {
	exchange string
	channel  Channel
	conn     *amqp.Connection
}

// Dial connects to the broker and declares a durable fanout exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := NewPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

// NewPublisher wraps an already open channel.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{exchange: exchange, channel: ch}
}

// Publish sends one event. The routing key is the event kind so a later
// switch to a topic exchange needs no client change.
func (p *Publisher) Publish(ctx context.Context, ev election.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		p.exchange,      // exchange
		string(ev.Kind), // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			MessageId:    uuid.NewString(),
			Timestamp:    ev.At,
			Type:         string(ev.Kind),
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
}

// Run publishes events until ctx is done or the channel closes. A failed
// publish is logged and the event is skipped.
func (p *Publisher) Run(ctx context.Context, events <-chan election.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := p.Publish(ctx, ev); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				slog.Error("event publish failed", "kind", ev.Kind, "exchange", p.exchange, "error", err)
				continue
			}
			slog.Debug("event published", "kind", ev.Kind, "exchange", p.exchange)
		}
	}
}

func (p *Publisher) Close() error {
	errCh := p.channel.Close()
	var errConn error
	if p.conn != nil {
		errConn = p.conn.Close()
	}
	return errors.Join(errCh, errConn)
}
