package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ActorHeader carries the caller's identity, injected by the gateway in
// front of this service. Authentication happens upstream; this service
// only reads the asserted identity.
const ActorHeader = "X-Vigil-Actor"

type contextKey string

const actorIDKey contextKey = "actor_id"

// IdentityMiddleware extracts the actor identity from the request
// headers and stores it in the request context.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actorID := strings.TrimSpace(r.Header.Get(ActorHeader)); actorID != "" {
			r = r.WithContext(WithActorID(r.Context(), actorID))
		}
		next.ServeHTTP(w, r)
	})
}

// WithActorID returns a context carrying the actor identity.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// GetActorID returns the actor identity from the context, or "" if the
// request carried none.
func GetActorID(ctx context.Context) string {
	actorID, _ := ctx.Value(actorIDKey).(string)
	return actorID
}
