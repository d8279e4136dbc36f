package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/opsnotify/svc/alerts"
)

func draft(typ alerts.Type, p alerts.Priority, title string) alerts.Draft {
	return alerts.Draft{Type: typ, Priority: p, Title: title, Metadata: alerts.Metadata{"k": title}}
}

func TestMemoryStore_Create(t *testing.T) {
	t.Parallel()

	s := alerts.NewMemoryStore()
	ctx := context.Background()

	a, err := s.Create(ctx, draft(alerts.TypeSystemStatus, alerts.PriorityLow, "same"))
	require.NoError(t, err)
	b, err := s.Create(ctx, draft(alerts.TypeSystemStatus, alerts.PriorityLow, "same"))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, 2, s.Len())

	_, err = s.Create(ctx, alerts.Draft{})
	assert.ErrorIs(t, err, alerts.ErrInvalidDraft)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Create(cancelled, draft(alerts.TypeSystemStatus, alerts.PriorityLow, "x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_List(t *testing.T) {
	t.Parallel()

	s := alerts.NewMemoryStore()
	ctx := context.Background()

	_, err := s.Create(ctx, draft(alerts.TypeSystemStatus, alerts.PriorityLow, "first"))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = s.Create(ctx, draft(alerts.TypeSecurityAlert, alerts.PriorityHigh, "second"))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	third := draft(alerts.TypeSecurityAlert, alerts.PriorityCritical, "third")
	third.TargetRole = "OPS"
	_, err = s.Create(ctx, third)
	require.NoError(t, err)

	all, err := s.List(ctx, alerts.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "first", all[2].Title)

	security, err := s.List(ctx, alerts.ListOptions{Types: []alerts.Type{alerts.TypeSecurityAlert}})
	require.NoError(t, err)
	assert.Len(t, security, 2)

	urgent, err := s.List(ctx, alerts.ListOptions{MinPriority: alerts.PriorityCritical})
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	assert.Equal(t, "third", urgent[0].Title)

	ops, err := s.List(ctx, alerts.ListOptions{TargetRole: "OPS"})
	require.NoError(t, err)
	assert.Len(t, ops, 1)

	page, err := s.List(ctx, alerts.ListOptions{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Title)

	past, err := s.List(ctx, alerts.ListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)

	future := time.Now().Add(time.Hour)
	none, err := s.List(ctx, alerts.ListOptions{Since: &future})
	require.NoError(t, err)
	assert.Empty(t, none)

	all[0].Metadata["k"] = "mutated"
	again, err := s.List(ctx, alerts.ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "third", again[0].Metadata["k"])
}
