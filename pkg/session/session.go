// Package session carries the caller identity that the browser page used to
// keep in local storage: the bearer token forwarded to the marketplace API,
// the submitting user id, and the id that scopes the caller's cart.
package session

import (
	"context"
	"strings"

	"github.com/foodsupplychain/procurement/pkg/enums"
)

// Context is passed explicitly to every service operation that needs identity.
type Context struct {
	Token     string
	UserID    string
	SessionID string
	Role      enums.UserRole
}

// New builds a session context. An empty session id falls back to the user id
// so a caller without a token id still gets exactly one cart.
func New(token, userID, sessionID string, role enums.UserRole) Context {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = strings.TrimSpace(userID)
	}
	return Context{
		Token:     strings.TrimSpace(token),
		UserID:    strings.TrimSpace(userID),
		SessionID: sessionID,
		Role:      role,
	}
}

// Valid reports whether the context can authenticate downstream calls.
func (c Context) Valid() bool {
	return c.Token != "" && c.UserID != "" && c.SessionID != ""
}

type ctxKey struct{}

// WithContext attaches the session to ctx.
func WithContext(ctx context.Context, sess Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session stored by WithContext.
func FromContext(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return Context{}, false
	}
	sess, ok := ctx.Value(ctxKey{}).(Context)
	return sess, ok
}
