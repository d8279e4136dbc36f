package alerts

import (
	"net/http"
	"strings"

	alertsvc "github.com/carebridge/opsnotify/svc/alerts"
)

// Identity headers set by the trusted upstream proxy after authentication.
const (
	HeaderActorRole = "X-Actor-Role"
	HeaderActorID   = "X-Actor-ID"
)

// ActorFromHeaders stores the upstream identity in the request context.
// Requests without a role carry the anonymous actor, which every gate denies.
func ActorFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := alertsvc.Actor{
			Role: strings.TrimSpace(r.Header.Get(HeaderActorRole)),
			ID:   strings.TrimSpace(r.Header.Get(HeaderActorID)),
		}
		next.ServeHTTP(w, r.WithContext(alertsvc.WithActor(r.Context(), actor)))
	})
}

func actorFrom(r *http.Request) alertsvc.Actor {
	actor, _ := alertsvc.ActorFromContext(r.Context())
	return actor
}
