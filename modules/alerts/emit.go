package alerts

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/carebridge/opsnotify/pkg/logger"
	"github.com/carebridge/opsnotify/pkg/webhook"
	alertsvc "github.com/carebridge/opsnotify/svc/alerts"
)

// emit is the receiving side of alertsvc.GatewayFanout. It republishes a
// signed event into the local hub.
func (m *Module) emit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	got := r.Header.Get(alertsvc.HeaderInternalSecret)
	if subtle.ConstantTimeCompare([]byte(got), []byte(m.secret)) != 1 {
		m.log.WarnContext(ctx, "gateway credential rejected")
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credential")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEmitBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "body unreadable or too large")
		return
	}
	if err := webhook.Verify(m.secret, body, r.Header, m.signatureMaxAge); err != nil {
		m.log.WarnContext(ctx, "gateway signature rejected", logger.Error(err))
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid signature")
		return
	}

	var ev alertsvc.GatewayEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "malformed event")
		return
	}
	if err := validateEvent(ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	if err := m.hub.Publish(ctx, ev.Notification, ev.TargetRole); err != nil {
		m.log.ErrorContext(ctx, "gateway publish failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "publish failed")
		return
	}
	m.log.DebugContext(ctx, "gateway event relayed",
		logger.NotificationID(ev.Notification.ID),
		logger.Role(ev.TargetRole),
	)
	w.WriteHeader(http.StatusAccepted)
}

func validateEvent(ev alertsvc.GatewayEvent) error {
	switch {
	case strings.TrimSpace(ev.TargetRole) == "":
		return errors.New("targetRole is required")
	case ev.Notification.ID == "":
		return errors.New("notification id is required")
	case !ev.Notification.Type.Valid():
		return errors.New("unknown notification type")
	case !ev.Notification.Priority.Valid():
		return errors.New("unknown notification priority")
	}
	return nil
}
