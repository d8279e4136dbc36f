package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carebridge/opsnotify/pkg/logger"
)

// Fanout pushes a stored notification to live subscribers of targetRole.
// Delivery is at-most-once: implementations must not retry.
type Fanout interface {
	Publish(ctx context.Context, n Notification, targetRole string) error
}

// FanoutFunc adapts a function to the Fanout interface.
type FanoutFunc func(ctx context.Context, n Notification, targetRole string) error

func (f FanoutFunc) Publish(ctx context.Context, n Notification, targetRole string) error {
	return f(ctx, n, targetRole)
}

// NoopFanout discards every notification.
type NoopFanout struct{}

func (NoopFanout) Publish(context.Context, Notification, string) error { return nil }

// NamedFanout pairs a fan-out with a name used in logs.
type NamedFanout struct {
	Name   string
	Fanout Fanout
}

// MultiFanout publishes to every member in order. A failing member does not
// stop the others; all failures are logged and joined.
type MultiFanout struct {
	members []NamedFanout
	logger  *slog.Logger
}

// NewMultiFanout creates a fan-out over members.
func NewMultiFanout(log *slog.Logger, members ...NamedFanout) *MultiFanout {
	if log == nil {
		log = slog.Default()
	}
	return &MultiFanout{members: members, logger: log}
}

func (m *MultiFanout) Publish(ctx context.Context, n Notification, targetRole string) error {
	var errs []error
	for _, member := range m.members {
		if err := member.Fanout.Publish(ctx, n, targetRole); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "fanout member failed",
				logger.Component(member.Name),
				logger.NotificationID(n.ID),
				logger.Role(targetRole),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", member.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of members.
func (m *MultiFanout) Len() int {
	return len(m.members)
}
