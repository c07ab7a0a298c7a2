package handlers

import (
	"context"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const ActorKey contextKey = "actor"

// ActorMiddleware resolves who is acting on the request and stores it in the
// request context. The actor is only recorded on BOQ history; nothing is
// authorized here.
func ActorMiddleware(defaultActor string) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		actor := resolveActor(e, defaultActor)
		ctx := context.WithValue(e.Request.Context(), ActorKey, actor)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// GetActor returns the actor stored by ActorMiddleware, resolving it from the
// request when the middleware did not run.
func GetActor(e *core.RequestEvent, fallback string) string {
	if val, ok := e.Request.Context().Value(ActorKey).(string); ok && val != "" {
		return val
	}
	return resolveActor(e, fallback)
}

// resolveActor prefers the authenticated record's name, then its email, then
// the X-Actor header.
func resolveActor(e *core.RequestEvent, fallback string) string {
	if e.Auth != nil {
		if name := strings.TrimSpace(e.Auth.GetString("name")); name != "" {
			return name
		}
		if email := e.Auth.Email(); email != "" {
			return email
		}
	}
	if h := strings.TrimSpace(e.Request.Header.Get("X-Actor")); h != "" {
		return h
	}
	return fallback
}
