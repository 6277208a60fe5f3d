package middleware

import (
	"net/http"
	"strings"

	"github.com/foodsupplychain/procurement/api/responses"
	pkgAuth "github.com/foodsupplychain/procurement/pkg/auth"
	"github.com/foodsupplychain/procurement/pkg/config"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
	"github.com/foodsupplychain/procurement/pkg/session"
)

// Auth validates a bearer token and seeds the request context with the
// caller's session. The raw token is kept so it can be forwarded to the
// marketplace API.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			sess := session.New(token, claims.SubjectID(), claims.ID, claims.Role)
			ctx := session.WithContext(r.Context(), sess)

			if logg != nil {
				ctx = logg.WithUserID(ctx, sess.UserID)
				ctx = logg.WithSessionID(ctx, sess.SessionID)
				ctx = logg.WithField(ctx, "actor_role", string(sess.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
