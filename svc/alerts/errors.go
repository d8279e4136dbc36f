package alerts

import "errors"

// Failure classes of the dispatch pipeline. They are logged and counted
// inside the package and never returned to helper callers.
var (
	ErrAuthorizationDenied = errors.New("alerts.authorization_denied")
	ErrPersistenceFailure  = errors.New("alerts.persistence_failure")
	ErrFanoutFailure       = errors.New("alerts.fanout_failure")
	ErrQueueFull           = errors.New("alerts.queue_full")
	ErrDispatcherStopped   = errors.New("alerts.dispatcher_stopped")
)

var (
	ErrInvalidDraft       = errors.New("alerts.invalid_draft")
	ErrUnknownPriority    = errors.New("alerts.unknown_priority")
	ErrActorNotInContext  = errors.New("alerts.actor_not_in_context")
	ErrDispatcherRunning  = errors.New("alerts.dispatcher_already_running")
	ErrDispatcherNotReady = errors.New("alerts.dispatcher_not_started")
)
