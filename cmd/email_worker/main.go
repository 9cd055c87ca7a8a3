package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-managebooks/config"
	"github.com/oksasatya/go-managebooks/internal/infrastructure/messaging"
	"github.com/oksasatya/go-managebooks/pkg/helpers"
	"github.com/oksasatya/go-managebooks/pkg/mailer"
	mailtpl "github.com/oksasatya/go-managebooks/pkg/mailer/templates"
)

const (
	consumerTag  = "email-worker"
	prefetch     = 16
	sendTimeout  = 15 * time.Second
	drainTimeout = 5 * time.Second
)

type sender interface {
	Send(ctx context.Context, job mailer.EmailJob) error
}

// worker turns user events into emails. Undecodable or unrenderable messages
// are dropped. A failed send goes back on the queue once, unless Mailgun
// rejected it outright.
type worker struct {
	cfg    *config.Config
	logger *logrus.Logger
	mail   sender
	render mailer.Renderer
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)
	for _, w := range cfg.Warnings() {
		logger.Warn("config: " + w)
	}

	switch {
	case !cfg.MailSendEnabled:
		logger.Info("MAIL_SEND_ENABLED=false, email worker not started")
		return
	case cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "":
		logger.Fatal("email worker needs RABBITMQ_URL and RABBITMQ_EVENTS_QUEUE")
	case cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "":
		logger.Fatal("email worker needs MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER")
	}

	conn, ch, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, helpers.RabbitOptions{
		Name:     cfg.AppName + "-email-worker",
		Prefetch: prefetch,
	})
	if err != nil {
		logger.WithError(err).Fatal("rabbitmq connect failed")
	}
	defer func() { _ = ch.Close(); _ = conn.Close() }()

	deliveries, err := ch.Consume(cfg.RabbitMQEventsQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume failed")
	}

	w := &worker{
		cfg:    cfg,
		logger: logger,
		mail:   mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		render: mailtpl.Render,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range deliveries {
			w.handle(context.WithoutCancel(ctx), d)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("email worker listening")
	<-ctx.Done()

	// Stop new deliveries and let the in-flight ones finish.
	logger.Info("shutting down...")
	if err := ch.Cancel(consumerTag, false); err != nil {
		logger.WithError(err).Warn("cancel consumer failed")
	}
	select {
	case <-done:
	case <-time.After(drainTimeout):
		logger.Warn("drain timed out")
	}
}

func (w *worker) handle(ctx context.Context, d amqp.Delivery) {
	ev, err := messaging.Decode(d)
	if err != nil {
		helpers.LogError(w.logger, "bad message", err, logrus.Fields{"message_id": d.MessageId})
		_ = d.Nack(false, false)
		return
	}
	fields := logrus.Fields{"event": ev.Name, "aggregate_id": ev.AggregateID}

	job, ok := jobForEvent(w.cfg, ev)
	if !ok {
		_ = d.Ack(false)
		return
	}
	if err := job.Resolve(w.render); err != nil {
		helpers.LogError(w.logger, "render email failed", err, fields)
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.mail.Send(sendCtx, job); err != nil {
		retry := shouldRetry(err, d)
		fields["requeued"] = retry
		helpers.LogError(w.logger, "send email failed", err, fields)
		_ = d.Nack(false, retry)
		return
	}
	w.logger.WithFields(fields).WithField("template", job.Template).Info("email sent")
	_ = d.Ack(false)
}

func shouldRetry(err error, d amqp.Delivery) bool {
	return !errors.Is(err, mailer.ErrRejected) && !d.Redelivered
}
