package alerts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/carebridge/opsnotify/pkg/logger"
	alertsvc "github.com/carebridge/opsnotify/svc/alerts"
)

const streamRetry = 3 * time.Second

// stream pushes notifications routed to the caller's role as server-sent
// events until the client disconnects.
func (m *Module) stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFrom(r)
	if actor.Role == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor role is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming is not supported")
		return
	}

	sub := m.hub.Subscribe(ctx, actor.Role)
	defer sub.Close()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: %d\n\n", streamRetry.Milliseconds())
	flusher.Flush()

	m.log.DebugContext(ctx, "stream opened", logger.Role(actor.Role), logger.ActorID(actor.ID))
	defer m.log.DebugContext(ctx, "stream closed", logger.Role(actor.Role), logger.ActorID(actor.ID))

	ticker := time.NewTicker(m.heartbeat)
	defer ticker.Stop()

	msgs := sub.C()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := writeEvent(w, msg); err != nil {
				m.log.WarnContext(ctx, "stream write failed",
					logger.NotificationID(msg.ID),
					logger.Error(err),
				)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, n alertsvc.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", n.ID, data)
	return err
}
