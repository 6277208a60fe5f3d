package middleware

import (
	"net/http"

	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/session"
)

// SessionFromRequest returns the session seeded by Auth.
func SessionFromRequest(r *http.Request) (session.Context, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.Valid() {
		return session.Context{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return sess, nil
}
