package alerts

import (
	"context"

	"github.com/carebridge/opsnotify/pkg/broadcast"
)

// RoleHub delivers notifications to in-process subscribers grouped by role.
// Slow subscribers are disconnected rather than allowed to block publishers.
type RoleHub struct {
	feeds *broadcast.Hub[string, Notification]
}

// NewRoleHub creates a hub whose subscribers buffer bufferSize notifications.
func NewRoleHub(bufferSize int) *RoleHub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &RoleHub{feeds: broadcast.New[string, Notification](bufferSize)}
}

// Subscribe registers a subscriber for role. It is closed when ctx is done.
func (h *RoleHub) Subscribe(ctx context.Context, role string) *broadcast.Subscription[Notification] {
	return h.feeds.Subscribe(ctx, role)
}

// Publish sends n to every subscriber of targetRole. Having no subscribers
// is not an error.
func (h *RoleHub) Publish(_ context.Context, n Notification, targetRole string) error {
	h.feeds.Publish(targetRole, n)
	return nil
}

// Subscribers returns the number of live subscribers for role.
func (h *RoleHub) Subscribers(role string) int {
	return h.feeds.Len(role)
}

// Stats reports live deliveries and evicted subscribers.
func (h *RoleHub) Stats() broadcast.Stats {
	return h.feeds.Stats()
}

func (h *RoleHub) Close() error {
	return h.feeds.Close()
}
