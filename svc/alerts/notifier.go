package alerts

import (
	"context"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Notifier is the catalog of event helpers. Each On* method builds a draft
// for one kind of domain event and submits it. Methods return nothing:
// authorization, persistence and fan-out failures stay inside the pipeline.
type Notifier struct {
	submitter Submitter
	links     Links
	money     moneyFormatter
	now       func() time.Time
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithLinks replaces DefaultLinks.
func WithLinks(l Links) NotifierOption {
	return func(n *Notifier) {
		n.links = l
	}
}

// WithClock overrides the source of metadata timestamps.
func WithClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLocale sets the language and currency used for amounts in messages.
// Default is English and USD.
func WithLocale(tag language.Tag, unit currency.Unit) NotifierOption {
	return func(n *Notifier) {
		n.money = newMoneyFormatter(tag, unit)
	}
}

// NewNotifier creates the helper catalog on top of s, usually a *Dispatcher.
func NewNotifier(s Submitter, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		submitter: s,
		links:     DefaultLinks(),
		money:     newMoneyFormatter(language.English, currency.USD),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Links returns the deep-link table in use.
func (n *Notifier) Links() Links {
	return n.links
}

func (n *Notifier) emit(ctx context.Context, actor Actor, d Draft) {
	if d.Metadata == nil {
		d.Metadata = Metadata{}
	}
	d.Metadata["timestamp"] = n.now().UTC().Format(time.RFC3339Nano)
	n.submitter.Dispatch(ctx, actor, d)
}
