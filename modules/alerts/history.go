package alerts

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/carebridge/opsnotify/pkg/logger"
	alertsvc "github.com/carebridge/opsnotify/svc/alerts"
)

var errBadQuery = errors.New("invalid query")

func (m *Module) history(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFrom(r)
	if !m.gate.Authorize(actor) {
		m.log.WarnContext(ctx, "history access denied",
			logger.Role(actor.Role),
			logger.ActorID(actor.ID),
		)
		writeError(w, http.StatusForbidden, "forbidden", "notification history is restricted")
		return
	}

	opts, err := parseListOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	items, err := m.store.List(ctx, opts)
	if err != nil {
		m.log.ErrorContext(ctx, "list notifications", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load notifications")
		return
	}
	if items == nil {
		items = []alertsvc.Notification{}
	}

	writeJSON(w, http.StatusOK, envelope{
		Data: items,
		Meta: map[string]any{
			"limit":  opts.Limit,
			"offset": opts.Offset,
			"count":  len(items),
		},
	})
}

// parseListOptions reads limit, offset, type and min_priority. Types may be
// repeated or comma separated.
func parseListOptions(q url.Values) (alertsvc.ListOptions, error) {
	opts := alertsvc.ListOptions{Limit: DefaultHistoryLimit}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("%w: limit must be a positive integer", errBadQuery)
		}
		opts.Limit = min(n, MaxHistoryLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("%w: offset must be a non-negative integer", errBadQuery)
		}
		opts.Offset = n
	}
	for _, raw := range q["type"] {
		for part := range strings.SplitSeq(raw, ",") {
			t := alertsvc.Type(strings.ToUpper(strings.TrimSpace(part)))
			if t == "" {
				continue
			}
			if !t.Valid() {
				return opts, fmt.Errorf("%w: unknown type %q", errBadQuery, part)
			}
			opts.Types = append(opts.Types, t)
		}
	}
	if v := q.Get("min_priority"); v != "" {
		p, err := alertsvc.ParsePriority(v)
		if err != nil {
			return opts, fmt.Errorf("%w: unknown priority %q", errBadQuery, v)
		}
		opts.MinPriority = p
	}
	return opts, nil
}
