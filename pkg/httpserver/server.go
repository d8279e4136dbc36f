package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/carebridge/opsnotify/pkg/logger"
)

// Server is a thin lifecycle wrapper around http.Server that plugs into an
// errgroup: Run blocks until the context ends, then shuts down gracefully.
type Server struct {
	srv             *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration

	mu      sync.Mutex
	running bool
	addr    net.Addr
	ready   chan struct{}
}

func New(handler http.Handler, opts ...Option) *Server {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	s := &Server{
		srv:             &http.Server{Addr: ":8080", Handler: handler},
		log:             slog.Default(),
		shutdownTimeout: 10 * time.Second,
		ready:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run returns a function for errgroup.Go that serves until ctx is done.
//
//	g.Go(srv.Run(ctx))
func (s *Server) Run(ctx context.Context) func() error {
	return func() error {
		s.mu.Lock()
		if s.running {
			s.mu.Unlock()
			return ErrAlreadyRunning
		}
		s.running = true
		s.mu.Unlock()

		ln, err := net.Listen("tcp", s.srv.Addr)
		if err != nil {
			return errors.Join(ErrStart, err)
		}
		s.mu.Lock()
		s.addr = ln.Addr()
		s.mu.Unlock()
		close(s.ready)

		s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

		errCh := make(chan error, 1)
		go func() { errCh <- s.srv.Serve(ln) }()

		s.log.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()))

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return errors.Join(ErrStart, err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		start := time.Now()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			// Long-lived streams may ignore the deadline; cut them off.
			_ = s.srv.Close()
			s.log.ErrorContext(shutdownCtx, "http server shutdown failed", logger.Error(err))
			return errors.Join(ErrShutdown, err)
		}
		<-errCh

		s.log.InfoContext(shutdownCtx, "http server stopped", logger.Duration(time.Since(start)))
		return nil
	}
}

// Addr waits until the listener is bound and returns its address.
// Returns nil if ctx ends first.
func (s *Server) Addr(ctx context.Context) net.Addr {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
