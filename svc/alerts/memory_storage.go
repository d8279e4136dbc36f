package alerts

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps notifications in process memory. Suitable for
// development, tests and single-instance deployments that accept losing
// history on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Notification
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Create(ctx context.Context, draft Draft) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, err
	}
	if err := draft.Validate(); err != nil {
		return Notification{}, err
	}

	n := draft.Stored(uuid.NewString(), s.now().UTC())

	s.mu.Lock()
	s.items = append(s.items, n)
	s.mu.Unlock()

	return n.Draft().Stored(n.ID, n.CreatedAt), nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	filtered := make([]Notification, 0, len(s.items))
	// Walk backwards so equal timestamps keep insertion order newest first.
	for _, n := range slices.Backward(s.items) {
		if opts.Match(n) {
			// Copy metadata so callers cannot reach stored state
			filtered = append(filtered, n.Draft().Stored(n.ID, n.CreatedAt))
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(filtered, func(a, b Notification) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return paginate(filtered, opts.Offset, opts.Limit), nil
}

// Len returns the number of stored notifications.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func paginate(items []Notification, offset, limit int) []Notification {
	offset = max(offset, 0)
	if offset >= len(items) {
		return []Notification{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
