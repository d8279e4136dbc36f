package webhook

import (
	"cmp"
	"sync"
	"time"
)

// CircuitState represents the current state of the circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calls to an endpoint after consecutive failures and
// lets a probe through once recoveryTimeout has elapsed. Safe for concurrent use.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	successThreshold int
	recoveryTimeout  time.Duration

	state       CircuitState
	failures    int
	successes   int
	lastFailure time.Time
	now         func() time.Time
	onChange    func(from, to CircuitState)
}

// NewCircuitBreaker creates a breaker. Non-positive arguments fall back to
// 5 failures, 2 successes and 30s.
func NewCircuitBreaker(failureThreshold, successThreshold int, recoveryTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: cmp.Or(max(failureThreshold, 0), 5),
		successThreshold: cmp.Or(max(successThreshold, 0), 2),
		recoveryTimeout:  cmp.Or(max(recoveryTimeout, 0), 30*time.Second),
		now:              time.Now,
	}
}

// OnStateChange registers fn to run after every transition. fn runs outside
// the breaker lock and may call State.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to CircuitState)) {
	cb.mu.Lock()
	cb.onChange = fn
	cb.mu.Unlock()
}

// Allow reports whether a call may proceed, moving an expired open circuit
// to half-open.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailure) <= cb.recoveryTimeout {
		cb.mu.Unlock()
		return false
	}
	notify := cb.moveLocked(CircuitHalfOpen, cb.state == CircuitOpen)
	cb.mu.Unlock()
	notify()
	return true
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	cb.failures = 0
	if cb.state == CircuitHalfOpen {
		cb.successes++
	}
	notify := cb.moveLocked(CircuitClosed, cb.state == CircuitHalfOpen && cb.successes >= cb.successThreshold)
	cb.mu.Unlock()
	notify()
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	cb.lastFailure = cb.now()
	if cb.state == CircuitClosed {
		cb.failures++
	}
	trip := cb.state == CircuitHalfOpen || (cb.state == CircuitClosed && cb.failures >= cb.failureThreshold)
	notify := cb.moveLocked(CircuitOpen, trip)
	cb.mu.Unlock()
	notify()
}

// moveLocked switches to state when cond holds, resetting the counters, and
// returns the hook invocation to run once the lock is released.
func (cb *CircuitBreaker) moveLocked(to CircuitState, cond bool) func() {
	if !cond || cb.state == to {
		return func() {}
	}
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	hook := cb.onChange
	if hook == nil {
		return func() {}
	}
	return func() { hook(from, to) }
}

// State returns the state Allow would observe right now.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailure) > cb.recoveryTimeout {
		return CircuitHalfOpen
	}
	return cb.state
}
