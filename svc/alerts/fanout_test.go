package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/svc/alerts"
)

func TestMultiFanout(t *testing.T) {
	t.Parallel()

	ok := &recordingFanout{}
	broken := &recordingFanout{fail: errors.New("down")}
	after := &recordingFanout{}

	m := alerts.NewMultiFanout(logger.Discard(),
		alerts.NamedFanout{Name: "ok", Fanout: ok},
		alerts.NamedFanout{Name: "broken", Fanout: broken},
		alerts.NamedFanout{Name: "after", Fanout: after},
	)
	assert.Equal(t, 3, m.Len())

	err := m.Publish(context.Background(), alerts.Notification{ID: "n1"}, "SUPER_ADMIN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	assert.Len(t, ok.Published(), 1)
	assert.Len(t, after.Published(), 1)

	assert.NoError(t, alerts.NewMultiFanout(nil).Publish(context.Background(), alerts.Notification{}, "x"))
}

func TestFanoutFunc(t *testing.T) {
	t.Parallel()

	var role string
	f := alerts.FanoutFunc(func(_ context.Context, _ alerts.Notification, r string) error {
		role = r
		return nil
	})
	require.NoError(t, f.Publish(context.Background(), alerts.Notification{}, "OPS"))
	assert.Equal(t, "OPS", role)
	assert.NoError(t, alerts.NoopFanout{}.Publish(context.Background(), alerts.Notification{}, "OPS"))
}

func TestRoleHub(t *testing.T) {
	t.Parallel()

	hub := alerts.NewRoleHub(4)
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admins := hub.Subscribe(ctx, "SUPER_ADMIN")
	other := hub.Subscribe(ctx, "ADMIN")
	assert.Equal(t, 1, hub.Subscribers("SUPER_ADMIN"))

	require.NoError(t, hub.Publish(context.Background(), alerts.Notification{ID: "n1"}, "SUPER_ADMIN"))

	select {
	case msg := <-admins.C():
		assert.Equal(t, "n1", msg.ID)
	case <-time.After(time.Second):
		t.Fatal("privileged subscriber got nothing")
	}

	select {
	case msg := <-other.C():
		t.Fatalf("unexpected message for other role: %v", msg.ID)
	case <-time.After(20 * time.Millisecond):
	}

	assert.NoError(t, hub.Publish(context.Background(), alerts.Notification{ID: "n2"}, "NOBODY"))
}

func TestRoleHub_UnsubscribesOnContextDone(t *testing.T) {
	t.Parallel()

	hub := alerts.NewRoleHub(1)
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := hub.Subscribe(ctx, "SUPER_ADMIN")
	cancel()

	require.Eventually(t, func() bool { return hub.Subscribers("SUPER_ADMIN") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-sub.C()
	assert.False(t, open)
}
