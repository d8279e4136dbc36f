package alerts_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/pkg/webhook"
	"github.com/carebridge/opsnotify/svc/alerts"
)

func TestGatewayFanout(t *testing.T) {
	t.Parallel()

	var (
		gotSecret string
		gotEvent  alerts.GatewayEvent
		verifyErr error
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotSecret = r.Header.Get(alerts.HeaderInternalSecret)
		verifyErr = webhook.Verify("shared", body, r.Header, time.Minute)
		_ = json.Unmarshal(body, &gotEvent)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	g, err := alerts.NewGatewayFanout(srv.URL, "shared", time.Second, logger.Discard())
	require.NoError(t, err)

	n := alerts.Draft{Type: alerts.TypeSecurityAlert, Priority: alerts.PriorityHigh, Title: "t"}.Stored("n1", time.Now().UTC())
	require.NoError(t, g.Publish(context.Background(), n, "SUPER_ADMIN"))

	assert.Equal(t, "shared", gotSecret)
	assert.NoError(t, verifyErr)
	assert.Equal(t, "n1", gotEvent.Notification.ID)
	assert.Equal(t, alerts.PriorityHigh, gotEvent.Notification.Priority)
	assert.Equal(t, "SUPER_ADMIN", gotEvent.TargetRole)
}

func TestGatewayFanout_FailureIsReturnedOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g, err := alerts.NewGatewayFanout(srv.URL, "shared", time.Second, logger.Discard())
	require.NoError(t, err)

	err = g.Publish(context.Background(), alerts.Notification{ID: "n1", Priority: alerts.PriorityLow}, "SUPER_ADMIN")
	assert.ErrorIs(t, err, webhook.ErrDeliveryFailed)
	assert.Equal(t, 1, calls)
}

func TestNewGatewayFanout_Validation(t *testing.T) {
	t.Parallel()

	_, err := alerts.NewGatewayFanout("http://gateway.internal", "", time.Second, logger.Discard())
	assert.ErrorIs(t, err, webhook.ErrInvalidConfiguration)

	_, err = alerts.NewGatewayFanout("gateway", "s", time.Second, logger.Discard())
	assert.ErrorIs(t, err, webhook.ErrInvalidURL)
}
