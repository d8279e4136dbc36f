package alerts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"maps"
	"slices"

	"github.com/carebridge/opsnotify/pkg/email"
)

var escalationTemplate = template.Must(template.New("escalation").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>[{{.Priority}}] {{.Title}}</h2>
<p>{{.Message}}</p>
<table cellpadding="4">
<tr><td><b>Type</b></td><td>{{.Type}}</td></tr>
<tr><td><b>Raised</b></td><td>{{.CreatedAt.UTC.Format "2006-01-02 15:04:05 MST"}}</td></tr>
{{if .IPAddress}}<tr><td><b>IP address</b></td><td>{{.IPAddress}}</td></tr>{{end}}
{{if .Location}}<tr><td><b>Location</b></td><td>{{.Location}}</td></tr>{{end}}
{{range .Details}}<tr><td><b>{{.Key}}</b></td><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">Open in console</a></p>{{end}}
</body></html>`))

type escalationView struct {
	Notification
	Details []detail
}

type detail struct {
	Key   string
	Value any
}

// EscalationFanout mails notifications at or above a priority threshold to
// a fixed list of operator mailboxes.
type EscalationFanout struct {
	sender     email.EmailSender
	recipients []string
	threshold  Priority
	baseURL    string
}

// EscalationOption configures an EscalationFanout.
type EscalationOption func(*EscalationFanout)

// WithEscalationThreshold sets the lowest priority that is mailed.
// Default is CRITICAL.
func WithEscalationThreshold(p Priority) EscalationOption {
	return func(f *EscalationFanout) {
		if p.Valid() {
			f.threshold = p
		}
	}
}

// WithConsoleBaseURL prefixes relative action links in mails.
func WithConsoleBaseURL(u string) EscalationOption {
	return func(f *EscalationFanout) {
		f.baseURL = u
	}
}

// NewEscalationFanout creates an e-mail fan-out. Invalid addresses are rejected.
func NewEscalationFanout(sender email.EmailSender, recipients []string, opts ...EscalationOption) (*EscalationFanout, error) {
	if sender == nil {
		return nil, errors.Join(email.ErrInvalidConfig, errors.New("sender is required"))
	}
	for _, r := range recipients {
		if !email.ValidAddress(r) {
			return nil, fmt.Errorf("%w: invalid recipient %q", email.ErrInvalidConfig, r)
		}
	}
	f := &EscalationFanout{
		sender:     sender,
		recipients: slices.Clone(recipients),
		threshold:  PriorityCritical,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Publish mails n when its priority reaches the threshold. The target role
// does not affect the recipient list.
func (f *EscalationFanout) Publish(ctx context.Context, n Notification, _ string) error {
	if n.Priority < f.threshold || len(f.recipients) == 0 {
		return nil
	}

	body, err := f.render(n)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("[%s] %s", n.Priority, n.Title)

	var errs []error
	for _, to := range f.recipients {
		if err := f.sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   to,
			Subject:  subject,
			BodyHTML: body,
			Tag:      "alert-escalation",
		}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *EscalationFanout) render(n Notification) (string, error) {
	view := escalationView{Notification: n}
	if f.baseURL != "" && len(n.ActionURL) > 0 && n.ActionURL[0] == '/' {
		view.ActionURL = f.baseURL + n.ActionURL
	}
	for _, k := range slices.Sorted(maps.Keys(n.Metadata)) {
		view.Details = append(view.Details, detail{Key: k, Value: n.Metadata[k]})
	}

	var buf bytes.Buffer
	if err := escalationTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render escalation mail: %w", err)
	}
	return buf.String(), nil
}
