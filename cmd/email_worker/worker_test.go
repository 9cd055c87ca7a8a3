package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-managebooks/config"
	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/pkg/mailer"
	mailtpl "github.com/oksasatya/go-managebooks/pkg/mailer/templates"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error { return a.Nack(0, false, requeue) }

type fakeSender struct {
	err  error
	sent []mailer.EmailJob
}

func (f *fakeSender) Send(_ context.Context, job mailer.EmailJob) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, job)
	return nil
}

func newWorker(s sender) *worker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &worker{cfg: &config.Config{AppName: "ManageBooks"}, logger: logger, mail: s, render: mailtpl.Render}
}

func delivery(t *testing.T, ack *ackRecorder, ev application.Event) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body, Type: ev.Name}
}

func userCreated() application.Event {
	return application.Event{
		Name:        application.EventUserCreated,
		AggregateID: uuid.New(),
		OccurredAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Payload:     map[string]any{"email": "ada@example.com", "name": "Ada"},
	}
}

func TestWorkerSendsWelcome(t *testing.T) {
	s := &fakeSender{}
	ack := &ackRecorder{}
	newWorker(s).handle(context.Background(), delivery(t, ack, userCreated()))

	assert.True(t, ack.acked)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "ada@example.com", s.sent[0].To)
	assert.Contains(t, s.sent[0].Subject, "Welcome")
	assert.NotEmpty(t, s.sent[0].HTML)
}

func TestWorkerAcksIgnoredEvents(t *testing.T) {
	s := &fakeSender{}
	ack := &ackRecorder{}
	ev := application.Event{Name: application.EventBookCreated, AggregateID: uuid.New()}
	newWorker(s).handle(context.Background(), delivery(t, ack, ev))

	assert.True(t, ack.acked)
	assert.Empty(t, s.sent)
}

func TestWorkerDropsUndecodableMessages(t *testing.T) {
	ack := &ackRecorder{}
	newWorker(&fakeSender{}).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestWorkerDropsRenderFailures(t *testing.T) {
	w := newWorker(&fakeSender{})
	w.render = func(string, any) (string, string, string, error) { return "", "", "", errors.New("broken template") }
	ack := &ackRecorder{}
	w.handle(context.Background(), delivery(t, ack, userCreated()))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestWorkerSendFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		redelivered bool
		requeue     bool
	}{
		{"transient first attempt", errors.New("mailgun down"), false, true},
		{"transient already retried", errors.New("mailgun down"), true, false},
		{"rejected", fmt.Errorf("%w (status 400)", mailer.ErrRejected), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &ackRecorder{}
			d := delivery(t, ack, userCreated())
			d.Redelivered = tt.redelivered
			newWorker(&fakeSender{err: tt.err}).handle(context.Background(), d)

			assert.True(t, ack.nacked)
			assert.False(t, ack.acked)
			assert.Equal(t, tt.requeue, ack.requeue)
		})
	}
}
