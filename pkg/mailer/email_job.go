package mailer

import (
	"errors"
	"strings"
)

var ErrNoRecipient = errors.New("mailer: job has no recipient")

// EmailJob describes a single outgoing email. Either Template and Data or a
// prerendered Subject/Text/HTML triple is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome", "account_deactivated"
	Data     map[string]any `json:"data,omitempty"`
}

// Renderer turns a template name and data into subject, text and html bodies.
type Renderer func(name string, data any) (subject, text, html string, err error)

// Resolve fills Subject, Text and HTML from the template when one is named.
func (j *EmailJob) Resolve(render Renderer) error {
	if strings.TrimSpace(j.To) == "" {
		return ErrNoRecipient
	}
	if j.Template == "" {
		return nil
	}
	subject, text, html, err := render(j.Template, j.Data)
	if err != nil {
		return err
	}
	j.Subject, j.Text, j.HTML = strings.TrimSpace(subject), text, html
	return nil
}
