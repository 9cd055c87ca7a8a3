package helpers

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitOptions tunes DialRabbit. Name shows up as the connection name in the
// broker UI; Prefetch > 0 sets the channel QoS for consumers.
type RabbitOptions struct {
	Name     string
	Prefetch int
}

// DialRabbit opens a connection and channel and declares queue as durable.
func DialRabbit(url, queue string, opts RabbitOptions) (*amqp.Connection, *amqp.Channel, error) {
	cfg := amqp.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: amqp.NewConnectionProperties(),
	}
	if opts.Name != "" {
		cfg.Properties.SetClientConnectionName(opts.Name)
	}
	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	fail := func(err error) (*amqp.Connection, *amqp.Channel, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	if opts.Prefetch > 0 {
		if err := ch.Qos(opts.Prefetch, 0, false); err != nil {
			return fail(err)
		}
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fail(err)
	}
	return conn, ch, nil
}
