package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// ErrRejected marks a message Mailgun refused outright. Retrying it cannot
// succeed; timeouts, throttling and 5xx answers are not wrapped.
var ErrRejected = errors.New("mailer: message rejected")

// Mailgun delivers EmailJobs through the Mailgun API.
type Mailgun struct {
	client mg.Mailgun
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender}
}

// Send delivers a resolved job. HTML is attached only when present.
func (m *Mailgun) Send(ctx context.Context, job EmailJob) error {
	msg := m.client.NewMessage(m.sender, job.Subject, job.Text, job.To)
	if job.HTML != "" {
		msg.SetHtml(job.HTML)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return classify(err)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	status := mg.GetStatusFromErr(err)
	if status >= 400 && status < 500 && status != http.StatusRequestTimeout && status != http.StatusTooManyRequests {
		return fmt.Errorf("%w (status %d): %w", ErrRejected, status, err)
	}
	return err
}
