package httpx

import (
	"context"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the admin session placed by RequireAdmin, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return s
	}
	return nil
}

// actorName is the name recorded in the activity log for the current admin.
func actorName(ctx context.Context) string {
	s := GetSessionFromContext(ctx)
	switch {
	case s == nil:
		return ""
	case s.Username != "":
		return s.Username
	default:
		return s.Email
	}
}
