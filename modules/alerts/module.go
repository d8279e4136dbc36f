package alerts

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carebridge/opsnotify/pkg/clientip"
	"github.com/carebridge/opsnotify/pkg/httpserver"
	"github.com/carebridge/opsnotify/pkg/requestid"
	alertsvc "github.com/carebridge/opsnotify/svc/alerts"
)

const (
	DefaultHeartbeat       = 25 * time.Second
	DefaultSignatureMaxAge = 5 * time.Minute
	DefaultHistoryLimit    = 50
	MaxHistoryLimit        = 500

	maxEmitBody = 1 << 20
)

var ErrMissingDependency = errors.New("alerts: store and hub are required")

// Module exposes notification history, the live stream and the gateway
// receiver over HTTP.
type Module struct {
	store  alertsvc.Store
	hub    *alertsvc.RoleHub
	gate   alertsvc.Gate
	secret string
	log    *slog.Logger

	heartbeat       time.Duration
	signatureMaxAge time.Duration
	readyTimeout    time.Duration
	checks          []httpserver.Check
}

type Option func(*Module)

// WithGate sets who may read history. Defaults to the privileged role gate.
func WithGate(g alertsvc.Gate) Option {
	return func(m *Module) {
		if g != nil {
			m.gate = g
		}
	}
}

// WithGatewaySecret enables POST /internal/emit authenticated by secret.
func WithGatewaySecret(secret string) Option {
	return func(m *Module) { m.secret = secret }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

// WithHeartbeat sets the interval of keep-alive comments on the stream.
func WithHeartbeat(d time.Duration) Option {
	return func(m *Module) {
		if d > 0 {
			m.heartbeat = d
		}
	}
}

func WithSignatureMaxAge(d time.Duration) Option {
	return func(m *Module) {
		if d > 0 {
			m.signatureMaxAge = d
		}
	}
}

// WithReadinessChecks registers probes served by GET /readyz.
func WithReadinessChecks(timeout time.Duration, checks ...httpserver.Check) Option {
	return func(m *Module) {
		m.readyTimeout = timeout
		m.checks = append(m.checks, checks...)
	}
}

func New(store alertsvc.Store, hub *alertsvc.RoleHub, opts ...Option) (*Module, error) {
	if store == nil || hub == nil {
		return nil, ErrMissingDependency
	}
	m := &Module{
		store:           store,
		hub:             hub,
		gate:            alertsvc.NewRoleGate(""),
		log:             slog.Default(),
		heartbeat:       DefaultHeartbeat,
		signatureMaxAge: DefaultSignatureMaxAge,
		readyTimeout:    2 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Router mounts every endpoint of the module.
//
//	GET  /healthz
//	GET  /readyz
//	POST /internal/emit          (only with WithGatewaySecret)
//	GET  /notifications          (privileged actors)
//	GET  /notifications/stream   (any identified actor)
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(m.log, 0))
	r.Get("/readyz", httpserver.HealthCheckHandler(m.log, m.readyTimeout, m.checks...))

	if m.secret != "" {
		r.Post("/internal/emit", m.emit)
	}

	r.Group(func(r chi.Router) {
		r.Use(ActorFromHeaders)
		r.Get("/notifications", m.history)
		r.Get("/notifications/stream", m.stream)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	})
	return r
}
