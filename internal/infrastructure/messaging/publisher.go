// Package messaging carries domain events over RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/pkg/helpers"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends events to a single durable queue through the default exchange.
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    channel
	queue string
}

func NewPublisher(url, queue, name string) (*Publisher, error) {
	conn, ch, err := helpers.DialRabbit(url, queue, helpers.RabbitOptions{Name: name})
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if c, ok := p.ch.(*amqp.Channel); ok && c != nil {
		_ = c.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Publish sends ev as a persistent JSON message typed with the event name.
func (p *Publisher) Publish(ctx context.Context, ev application.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Type:         ev.Name,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

// Decode reads an event published by Publisher.
func Decode(d amqp.Delivery) (application.Event, error) {
	var ev application.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		return application.Event{}, err
	}
	if ev.Name == "" {
		ev.Name = d.Type
	}
	return ev, nil
}

var _ application.EventPublisher = (*Publisher)(nil)
