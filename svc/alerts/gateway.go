package alerts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/pkg/webhook"
)

// HeaderInternalSecret carries the static credential shared with the
// real-time channel gateway.
const HeaderInternalSecret = "X-Internal-Secret"

// GatewayEvent is the body exchanged with the real-time channel gateway.
type GatewayEvent struct {
	Notification Notification `json:"notification"`
	TargetRole   string       `json:"targetRole"`
}

// GatewayFanout forwards notifications to an external gateway over HTTP.
type GatewayFanout struct {
	sender *webhook.Sender
}

// NewGatewayFanout creates a gateway client for endpoint authenticated with
// secret. The same secret signs each body. Circuit transitions are logged
// to log, or slog.Default when nil.
func NewGatewayFanout(endpoint, secret string, timeout time.Duration, log *slog.Logger) (*GatewayFanout, error) {
	if secret == "" {
		return nil, errors.Join(webhook.ErrInvalidConfiguration, errors.New("gateway secret is required"))
	}
	if log == nil {
		log = slog.Default()
	}
	breaker := webhook.NewCircuitBreaker(5, 1, 30*time.Second)
	breaker.OnStateChange(func(from, to webhook.CircuitState) {
		level := slog.LevelInfo
		if to == webhook.CircuitOpen {
			level = slog.LevelWarn
		}
		log.Log(context.Background(), level, "gateway circuit state changed",
			logger.Component("alerts.gateway"),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.String("endpoint", endpoint),
		)
	})
	sender, err := webhook.NewSender(endpoint,
		webhook.WithHeader(HeaderInternalSecret, secret),
		webhook.WithSigningSecret(secret),
		webhook.WithTimeout(timeout),
		webhook.WithCircuitBreaker(breaker),
	)
	if err != nil {
		return nil, err
	}
	return &GatewayFanout{sender: sender}, nil
}

func (g *GatewayFanout) Publish(ctx context.Context, n Notification, targetRole string) error {
	return g.sender.Send(ctx, GatewayEvent{Notification: n, TargetRole: targetRole})
}
