package alerts

import (
	"log/slog"
	"time"
)

const (
	DefaultQueueSize   = 256
	DefaultWorkers     = 4
	DefaultStepTimeout = 5 * time.Second
)

type dispatcherOptions struct {
	queueSize      int
	workers        int
	stepTimeout    time.Duration
	privilegedRole string
	gate           Gate
	fanout         Fanout
	logger         *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherOptions)

// WithQueueSize sets how many accepted notifications may wait for a worker.
func WithQueueSize(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

func WithWorkers(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithStepTimeout bounds each Store.Create and Fanout.Publish call.
func WithStepTimeout(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		if d > 0 {
			o.stepTimeout = d
		}
	}
}

// WithPrivilegedRole sets the role that may originate notifications and
// that receives notifications without an explicit target role.
func WithPrivilegedRole(role string) DispatcherOption {
	return func(o *dispatcherOptions) {
		if role != "" {
			o.privilegedRole = role
		}
	}
}

// WithGate replaces the default RoleGate.
func WithGate(g Gate) DispatcherOption {
	return func(o *dispatcherOptions) {
		if g != nil {
			o.gate = g
		}
	}
}

func WithFanout(f Fanout) DispatcherOption {
	return func(o *dispatcherOptions) {
		if f != nil {
			o.fanout = f
		}
	}
}

func WithLogger(l *slog.Logger) DispatcherOption {
	return func(o *dispatcherOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
