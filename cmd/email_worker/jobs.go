package main

import (
	"fmt"

	"github.com/oksasatya/go-managebooks/config"
	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/pkg/mailer"
	mailtpl "github.com/oksasatya/go-managebooks/pkg/mailer/templates"
)

// jobForEvent maps a domain event onto the email it triggers. Events that send
// no email report false.
func jobForEvent(cfg *config.Config, ev application.Event) (mailer.EmailJob, bool) {
	email := payloadString(ev.Payload, "email")
	if email == "" {
		return mailer.EmailJob{}, false
	}
	name := payloadString(ev.Payload, "name")

	switch ev.Name {
	case application.EventUserCreated:
		return mailer.EmailJob{
			To:       email,
			Template: mailtpl.Welcome,
			Data:     mailtpl.NewWelcomeData(cfg, name, email),
		}, true
	case application.EventUserDeactivated:
		return mailer.EmailJob{
			To:       email,
			Template: mailtpl.AccountDeactivated,
			Data:     mailtpl.NewAccountDeactivatedData(cfg, name, email, mailtpl.WithTime(ev.OccurredAt)),
		}, true
	default:
		return mailer.EmailJob{}, false
	}
}

func payloadString(p map[string]any, key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
