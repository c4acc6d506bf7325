// Package mq mirrors dashboard bus events to RabbitMQ so other services (kitchen
// printers, reporting) can follow the order flow.
package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	EventsExchange = "pos.events"
	publishTimeout = 5 * time.Second
)

// Publisher is the slice of *amqp.Channel the relay needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial opens a connection and declares the durable fanout exchange.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		EventsExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch}, nil
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Relay publishes each bus event as JSON with the event name as routing key.
type Relay struct {
	pub Publisher
	log zerolog.Logger
	now func() time.Time
}

func NewRelay(pub Publisher, log zerolog.Logger) *Relay {
	return &Relay{pub: pub, log: log, now: time.Now}
}

func (r *Relay) Attach(bus *events.Bus) func() {
	return bus.SubscribeAll(r.Forward)
}

// Forward never fails the publisher; broker errors are logged.
func (r *Relay) Forward(e events.Event) {
	body, err := json.Marshal(e)
	if err != nil {
		r.log.Error().Err(err).Str(logger.ACTION, "mq_encode_failed").Str("event", string(e.Name)).Msg("cannot encode event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = r.pub.PublishWithContext(ctx, EventsExchange, string(e.Name), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    r.now().UTC(),
		ContentType:  "application/json",
		Type:         string(e.Name),
		Body:         body,
	})
	if err != nil {
		r.log.Error().Err(err).Str(logger.ACTION, "mq_publish_failed").Str("event", string(e.Name)).Msg("event not mirrored")
	}
}
