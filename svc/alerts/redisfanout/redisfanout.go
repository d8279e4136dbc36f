// Package redisfanout carries notifications between service replicas over
// Redis pub/sub. A Publisher on the dispatching replica sends to channel
// "<prefix>:<role>"; a Relay on every replica forwards into its local hub.
package redisfanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/svc/alerts"
)

const DefaultPrefix = "opsnotify:alerts"

// Channel returns the pub/sub channel for role.
func Channel(prefix, role string) string {
	return prefix + ":" + role
}

// RoleFromChannel extracts the role from a channel built by Channel.
func RoleFromChannel(prefix, channel string) (string, bool) {
	role, ok := strings.CutPrefix(channel, prefix+":")
	return role, ok && role != ""
}

// Publisher is an alerts.Fanout that publishes to Redis.
type Publisher struct {
	client redis.UniversalClient
	prefix string
}

var _ alerts.Fanout = (*Publisher)(nil)

func NewPublisher(client redis.UniversalClient, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{client: client, prefix: prefix}
}

func (p *Publisher) Publish(ctx context.Context, n alerts.Notification, targetRole string) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("redisfanout: encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(p.prefix, targetRole), payload).Err(); err != nil {
		return fmt.Errorf("redisfanout: publish: %w", err)
	}
	return nil
}

// Relay subscribes to every role channel and republishes into a local fan-out.
type Relay struct {
	client redis.UniversalClient
	prefix string
	local  alerts.Fanout
	logger *slog.Logger
}

func NewRelay(client redis.UniversalClient, prefix string, local alerts.Fanout, log *slog.Logger) *Relay {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if log == nil {
		log = slog.Default()
	}
	return &Relay{
		client: client,
		prefix: prefix,
		local:  local,
		logger: log.With(logger.Component("alerts.redis_relay")),
	}
}

// Run subscribes and relays until ctx is done. Suitable for errgroup.
func (r *Relay) Run(ctx context.Context) func() error {
	return func() error {
		sub := r.client.PSubscribe(ctx, r.prefix+":*")
		defer sub.Close()

		if _, err := sub.Receive(ctx); err != nil {
			return fmt.Errorf("redisfanout: subscribe: %w", err)
		}
		r.logger.InfoContext(ctx, "relay subscribed", slog.String("pattern", r.prefix+":*"))

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				r.relay(ctx, msg.Channel, msg.Payload)
			}
		}
	}
}

func (r *Relay) relay(ctx context.Context, channel, payload string) {
	role, ok := RoleFromChannel(r.prefix, channel)
	if !ok {
		return
	}
	var n alerts.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "discarding malformed relay message",
			slog.String("channel", channel), logger.Error(err))
		return
	}
	if err := r.local.Publish(ctx, n, role); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "relay publish failed",
			logger.NotificationID(n.ID), logger.Role(role), logger.Error(err))
	}
}
