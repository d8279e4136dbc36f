// Package alerts turns domain events into prioritized operator notifications.
//
// A Notifier exposes one On* helper per event kind. Each helper classifies
// the event with the priority rules in priority.go, builds a Draft and
// hands it to a Dispatcher:
//
//	store := alerts.NewMemoryStore()
//	hub := alerts.NewRoleHub(16)
//	d, err := alerts.NewDispatcher(store, alerts.WithFanout(hub))
//	if err != nil {
//	    return err
//	}
//	g.Go(d.Run(ctx))
//
//	n := alerts.NewNotifier(d)
//	n.OnMultipleFailedLogins(ctx, actor, "a@b.com", "10.0.0.1", 6)
//
// The Dispatcher drops drafts from actors the Gate rejects, queues the rest
// and lets a worker pool persist them through a Store and push them through
// a Fanout. Helpers never block on that work and never observe its
// failures; Dispatcher.Stats exposes the counters.
//
// Stored notifications are append-only. Store has no update or delete.
package alerts
