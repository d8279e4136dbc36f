package alerts

import (
	"context"
	"slices"
	"time"
)

// Store is the persistence boundary. It accepts a Draft and returns the
// stored Notification with ID and CreatedAt populated. Stored records are
// never modified or removed through this interface.
type Store interface {
	// Create persists the draft as a new record. Two calls with equal drafts
	// produce two records.
	Create(ctx context.Context, draft Draft) (Notification, error)

	// List returns stored notifications, newest first.
	List(ctx context.Context, opts ListOptions) ([]Notification, error)
}

// ListOptions filters and paginates List results.
type ListOptions struct {
	TargetRole  string     // Only notifications routed to this role (empty = any)
	Types       []Type     // Only these types (empty = any)
	MinPriority Priority   // Only notifications at or above this tier (zero = any)
	Since       *time.Time // Only notifications created at or after this time
	Limit       int        // Maximum number of results (0 = no limit)
	Offset      int        // Number of results to skip
}

// Match reports whether n passes the filters of opts (pagination aside).
func (opts ListOptions) Match(n Notification) bool {
	if opts.TargetRole != "" && n.TargetRole != opts.TargetRole {
		return false
	}
	if len(opts.Types) > 0 && !slices.Contains(opts.Types, n.Type) {
		return false
	}
	if opts.MinPriority.Valid() && n.Priority < opts.MinPriority {
		return false
	}
	if opts.Since != nil && n.CreatedAt.Before(*opts.Since) {
		return false
	}
	return true
}

// TypeStrings returns the type filter as plain strings for query builders.
func (opts ListOptions) TypeStrings() []string {
	out := make([]string, len(opts.Types))
	for i, t := range opts.Types {
		out[i] = string(t)
	}
	return out
}
