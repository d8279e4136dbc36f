// Package broadcast is an in-process, non-blocking publish/subscribe hub
// keyed by topic.
//
// Live notification feeds key subscriptions by role:
//
//	feeds := broadcast.New[string, Event](32)
//	sub := feeds.Subscribe(ctx, "SUPER_ADMIN")
//	defer sub.Close()
//
//	feeds.Publish("SUPER_ADMIN", evt)
//
//	for evt := range sub.C() {
//		handle(evt)
//	}
//
// A subscriber that cannot keep up is evicted: its channel is closed and
// the publisher moves on.
package broadcast
