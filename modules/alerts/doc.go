// Package alerts is the HTTP surface of the notification subsystem.
//
// It is mounted behind an authenticating proxy that forwards the caller's
// identity in X-Actor-Role and X-Actor-ID. History is restricted to the
// privileged role; the event stream delivers notifications routed to the
// caller's own role. POST /internal/emit receives events pushed by a
// GatewayFanout on another instance and republishes them locally.
package alerts
