package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData is the view model shared by every email template.
type EmailData struct {
	Name  string
	Email string
	Type  string

	CompanyName string
	AppName     string
	SupportURL  string

	Time   string
	TimeAt time.Time
}

// ToMap flattens d into the map carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	return map[string]any{
		"Name":        d.Name,
		"Email":       d.Email,
		"Type":        d.Type,
		"CompanyName": d.CompanyName,
		"AppName":     d.AppName,
		"SupportURL":  d.SupportURL,
		"Time":        d.Time,
		"TimeAt":      d.TimeAt,
	}
}

// orDefault backs the "default" pipe: {{ .Name | default "reader" }}.
// Blank strings and zero values take the fallback.
func orDefault(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"default": orDefault,
	}
}

const (
	Welcome            = "welcome"
	AccountDeactivated = "account_deactivated"
)

// ErrUnknownTemplate is returned by Render for a name with no template files.
var ErrUnknownTemplate = errors.New("unknown email template")

// Template sets are parsed from FS on first use and shared afterwards.
var (
	textSet = sync.OnceValues(func() (*texttpl.Template, error) {
		return texttpl.New("").Funcs(texttpl.FuncMap(baseFuncs())).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
	})
	htmlSet = sync.OnceValues(func() (*htmpl.Template, error) {
		return htmpl.New("").Funcs(htmpl.FuncMap(baseFuncs())).ParseFS(FS, "*.html.tmpl")
	})
)

type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(tpl executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render produces subject, text and html bodies for name from
// <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	ts, err := textSet()
	if err != nil {
		return "", "", "", fmt.Errorf("parse text templates: %w", err)
	}
	hs, err := htmlSet()
	if err != nil {
		return "", "", "", fmt.Errorf("parse html templates: %w", err)
	}

	subjTpl, textTpl, htmlTpl := ts.Lookup(name+".subject.tmpl"), ts.Lookup(name+".text.tmpl"), hs.Lookup(name+".html.tmpl")
	if subjTpl == nil || textTpl == nil || htmlTpl == nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	if subject, err = execute(subjTpl, name, data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(textTpl, name, data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(htmlTpl, name, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
