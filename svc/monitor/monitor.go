// Package monitor turns readiness probes into operational notifications.
//
// Every interval the Monitor runs its probes and reports state transitions
// through the notification helpers: a probe that starts failing raises a
// critical health check, a recovering probe a healthy one. Connection pools
// at capacity raise a pool exhaustion alert once per episode.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/carebridge/opsnotify/pkg/httpserver"
	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/svc/alerts"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultProbeTimeout = 5 * time.Second
)

var ErrNoProbes = errors.New("monitor: nothing to watch")

// Reporter is the subset of the helper catalog the monitor emits through.
type Reporter interface {
	OnHealthCheck(ctx context.Context, actor alerts.Actor, component, status, details string)
	OnDatabaseConnectionPoolExhausted(ctx context.Context, actor alerts.Actor, database string, active, max int)
}

// Pool samples the usage of a named connection pool.
type Pool struct {
	Name  string
	Usage func() (acquired, max int)
}

type Monitor struct {
	reporter Reporter
	actor    alerts.Actor
	probes   []httpserver.Check
	pools    []Pool
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger

	mu        sync.Mutex
	failing   map[string]bool
	exhausted map[string]bool
}

type Option func(*Monitor)

func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithProbeTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithProbes(probes ...httpserver.Check) Option {
	return func(m *Monitor) { m.probes = append(m.probes, probes...) }
}

func WithPools(pools ...Pool) Option {
	return func(m *Monitor) { m.pools = append(m.pools, pools...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates a monitor reporting as actor, normally alerts.System(role).
func New(r Reporter, actor alerts.Actor, opts ...Option) (*Monitor, error) {
	m := &Monitor{
		reporter:  r,
		actor:     actor,
		interval:  DefaultInterval,
		timeout:   DefaultProbeTimeout,
		log:       slog.Default(),
		failing:   make(map[string]bool),
		exhausted: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	if len(m.probes) == 0 && len(m.pools) == 0 {
		return nil, ErrNoProbes
	}
	return m, nil
}

// Run returns a function for errgroup.Go that checks once immediately and
// then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) func() error {
	return func() error {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.Check(ctx)
		for {
			select {
			case <-ctx.Done():
				m.log.InfoContext(ctx, "monitor stopped")
				return nil
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}
}

// Check runs every probe and pool sample once.
func (m *Monitor) Check(ctx context.Context) {
	for _, p := range m.probes {
		m.probe(ctx, p)
	}
	for _, p := range m.pools {
		m.sample(ctx, p)
	}
}

func (m *Monitor) probe(ctx context.Context, p httpserver.Check) {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := p.Fn(pctx)
	cancel()
	if ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	was := m.failing[p.Name]
	m.failing[p.Name] = err != nil
	m.mu.Unlock()

	switch {
	case err != nil && !was:
		m.log.ErrorContext(ctx, "probe failing", logger.Component(p.Name), logger.Error(err))
		m.reporter.OnHealthCheck(ctx, m.actor, p.Name, "critical", err.Error())
	case err == nil && was:
		m.log.InfoContext(ctx, "probe recovered", logger.Component(p.Name))
		m.reporter.OnHealthCheck(ctx, m.actor, p.Name, "healthy", "recovered")
	}
}

func (m *Monitor) sample(ctx context.Context, p Pool) {
	acquired, limit := p.Usage()
	full := limit > 0 && acquired >= limit

	m.mu.Lock()
	was := m.exhausted[p.Name]
	m.exhausted[p.Name] = full
	m.mu.Unlock()

	if full && !was {
		m.log.WarnContext(ctx, "connection pool exhausted",
			logger.Component(p.Name),
			slog.Int("acquired", acquired),
			slog.Int("max", limit),
		)
		m.reporter.OnDatabaseConnectionPoolExhausted(ctx, m.actor, p.Name, acquired, limit)
	}
}
