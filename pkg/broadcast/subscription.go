package broadcast

import "sync"

// Subscription is one consumer's feed from a Hub.
type Subscription[T any] struct {
	ch      chan T
	mu      sync.RWMutex
	closed  bool
	stop    func() bool
	release func()
}

// C returns the channel values arrive on. It is closed when the
// subscription ends for any reason.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close unregisters the subscription and closes its channel. Safe to call
// more than once and from any goroutine.
func (s *Subscription[T]) Close() {
	if stop := s.shut(); stop != nil {
		stop()
	}
	if s.release != nil {
		s.release()
	}
}

// shut closes the channel and returns the context hook to cancel.
func (s *Subscription[T]) shut() func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.ch)
	return s.stop
}

func (s *Subscription[T]) offer(v T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- v:
		return true
	default:
		return false
	}
}
