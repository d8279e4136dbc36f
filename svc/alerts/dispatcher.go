package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carebridge/opsnotify/pkg/logger"
)

// Submitter accepts drafts on behalf of an actor. It never reports failure.
type Submitter interface {
	Dispatch(ctx context.Context, actor Actor, draft Draft)
}

// Stats is a snapshot of the dispatcher counters.
type Stats struct {
	Accepted            uint64 `json:"accepted"`
	Denied              uint64 `json:"denied"`
	Overflow            uint64 `json:"overflow"`
	Persisted           uint64 `json:"persisted"`
	PersistenceFailures uint64 `json:"persistenceFailures"`
	Delivered           uint64 `json:"delivered"`
	FanoutFailures      uint64 `json:"fanoutFailures"`
}

type job struct {
	ctx   context.Context
	actor Actor
	draft Draft
}

// Dispatcher authorizes drafts, queues them and lets a worker pool persist
// and fan them out. Callers never wait for persistence or fan-out and never
// see their errors.
type Dispatcher struct {
	store       Store
	gate        Gate
	fanout      Fanout
	targetRole  string
	stepTimeout time.Duration
	workers     int
	logger      *slog.Logger

	queue   chan job
	mu      sync.RWMutex
	started bool
	stopped bool
	wg      sync.WaitGroup

	accepted            atomic.Uint64
	denied              atomic.Uint64
	overflow            atomic.Uint64
	persisted           atomic.Uint64
	persistenceFailures atomic.Uint64
	delivered           atomic.Uint64
	fanoutFailures      atomic.Uint64
}

// NewDispatcher creates a dispatcher writing to store. Drafts submitted
// before Start are buffered in the queue.
func NewDispatcher(store Store, opts ...DispatcherOption) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("alerts: store is required")
	}

	o := &dispatcherOptions{
		queueSize:      DefaultQueueSize,
		workers:        DefaultWorkers,
		stepTimeout:    DefaultStepTimeout,
		privilegedRole: DefaultPrivilegedRole,
		fanout:         NoopFanout{},
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.gate == nil {
		o.gate = NewRoleGate(o.privilegedRole)
	}

	return &Dispatcher{
		store:       store,
		gate:        o.gate,
		fanout:      o.fanout,
		targetRole:  o.privilegedRole,
		stepTimeout: o.stepTimeout,
		workers:     o.workers,
		logger:      o.logger.With(logger.Component("alerts.dispatcher")),
		queue:       make(chan job, o.queueSize),
	}, nil
}

// Dispatch authorizes actor and enqueues draft. It never blocks: a denied
// actor, a full queue or a stopped dispatcher drop the draft with a warning.
func (d *Dispatcher) Dispatch(ctx context.Context, actor Actor, draft Draft) {
	if !d.gate.Authorize(actor) {
		d.denied.Add(1)
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification dropped",
			logger.Error(ErrAuthorizationDenied),
			logger.Role(actor.Role),
			logger.ActorID(actor.ID),
			logger.NotificationType(draft.Type),
		)
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.overflow.Add(1)
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification dropped",
			logger.Error(ErrDispatcherStopped),
			logger.NotificationType(draft.Type),
		)
		return
	}

	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), actor: actor, draft: draft}:
		d.accepted.Add(1)
	default:
		d.overflow.Add(1)
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification dropped",
			logger.Error(ErrQueueFull),
			logger.NotificationType(draft.Type),
			logger.Priority(draft.Priority),
			slog.Int("queue_capacity", cap(d.queue)),
		)
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrDispatcherStopped
	}
	if d.started {
		return ErrDispatcherRunning
	}
	d.started = true

	for range d.workers {
		d.wg.Add(1)
		go d.work()
	}

	d.logger.LogAttrs(ctx, slog.LevelInfo, "dispatcher started",
		slog.Int("workers", d.workers),
		slog.Int("queue_capacity", cap(d.queue)),
	)
	return nil
}

// Stop rejects new drafts, lets the workers drain the queue and waits for
// them. Drafts still queued on a never-started dispatcher are discarded.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	started := d.started
	close(d.queue)
	d.mu.Unlock()

	if !started {
		if n := len(d.queue); n > 0 {
			d.logger.Warn("dispatcher stopped before start, discarding queued notifications",
				slog.Int("count", n))
		}
		return nil
	}

	d.wg.Wait()
	d.logger.Info("dispatcher stopped", slog.Any("stats", d.Stats()))
	return nil
}

// Run starts the dispatcher and stops it when ctx is done. Suitable for errgroup.
func (d *Dispatcher) Run(ctx context.Context) func() error {
	return func() error {
		if err := d.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return d.Stop()
	}
}

// Stats returns the current counter values.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Accepted:            d.accepted.Load(),
		Denied:              d.denied.Load(),
		Overflow:            d.overflow.Load(),
		Persisted:           d.persisted.Load(),
		PersistenceFailures: d.persistenceFailures.Load(),
		Delivered:           d.delivered.Load(),
		FanoutFailures:      d.fanoutFailures.Load(),
	}
}

// Pending returns the number of queued drafts not yet picked by a worker.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for j := range d.queue {
		d.process(j)
	}
}

func (d *Dispatcher) process(j job) {
	defer func() {
		if r := recover(); r != nil {
			d.persistenceFailures.Add(1)
			d.logger.LogAttrs(j.ctx, slog.LevelError, "notification job panicked",
				logger.NotificationType(j.draft.Type),
				slog.Any("panic", r),
			)
		}
	}()

	n, ok := d.persist(j)
	if !ok {
		return
	}
	d.publish(j.ctx, n)
}

func (d *Dispatcher) persist(j job) (Notification, bool) {
	start := time.Now()
	err := j.draft.Validate()

	var n Notification
	if err == nil {
		ctx, cancel := context.WithTimeout(j.ctx, d.stepTimeout)
		n, err = d.store.Create(ctx, j.draft)
		cancel()
	}
	if err != nil {
		d.persistenceFailures.Add(1)
		d.logger.LogAttrs(j.ctx, slog.LevelError, "failed to persist notification",
			logger.Error(errors.Join(ErrPersistenceFailure, err)),
			logger.NotificationType(j.draft.Type),
			logger.Priority(j.draft.Priority),
			logger.ActorID(j.actor.ID),
			logger.Duration(time.Since(start)),
		)
		return Notification{}, false
	}

	d.persisted.Add(1)
	return n, true
}

func (d *Dispatcher) publish(ctx context.Context, n Notification) {
	role := n.TargetRole
	if role == "" {
		role = d.targetRole
	}

	start := time.Now()
	fctx, cancel := context.WithTimeout(ctx, d.stepTimeout)
	err := d.fanout.Publish(fctx, n, role)
	cancel()

	if err != nil {
		d.fanoutFailures.Add(1)
		d.logger.LogAttrs(ctx, slog.LevelError, "failed to fan out notification",
			logger.Error(fmt.Errorf("%w: %w", ErrFanoutFailure, err)),
			logger.NotificationID(n.ID),
			logger.Role(role),
			logger.Duration(time.Since(start)),
		)
		return
	}

	d.delivered.Add(1)
	d.logger.LogAttrs(ctx, slog.LevelDebug, "notification dispatched",
		logger.NotificationID(n.ID),
		logger.NotificationType(n.Type),
		logger.Priority(n.Priority),
		logger.Role(role),
	)
}
