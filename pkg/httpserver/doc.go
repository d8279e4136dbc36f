// Package httpserver runs an http.Handler as an errgroup member.
//
// Run binds the listener, serves until the context is cancelled and then
// shuts down within the configured timeout, force-closing connections that
// outlive it (server-sent event streams usually do):
//
//	srv := httpserver.NewFromConfig(cfg, router, httpserver.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx))
//
// HealthCheckHandler provides liveness and readiness endpoints built from
// named checks.
package httpserver
