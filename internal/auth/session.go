package auth

import (
	"context"

	"github.com/mmynk/splitpocket/internal/apperr"
)

// Session identifies the signed-in user for one request. It is passed
// explicitly through the request context instead of living in global state.
type Session struct {
	UserID string
	Email  string
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session carried by ctx, if any.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	if !ok || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}

// RequireSession returns the session carried by ctx, or an error of kind
// NotAuthenticated.
func RequireSession(ctx context.Context) (Session, error) {
	s, ok := SessionFrom(ctx)
	if !ok {
		return Session{}, apperr.ErrNotAuthenticated
	}
	return s, nil
}
