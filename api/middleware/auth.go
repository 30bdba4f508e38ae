package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopstack-labs/shopstack-backend/api/responses"
	pkgAuth "github.com/shopstack-labs/shopstack-backend/pkg/auth"
	"github.com/shopstack-labs/shopstack-backend/pkg/auth/session"
	"github.com/shopstack-labs/shopstack-backend/pkg/config"
	pkgerrors "github.com/shopstack-labs/shopstack-backend/pkg/errors"
	"github.com/shopstack-labs/shopstack-backend/pkg/logger"
)

// bearerToken pulls the token out of the Authorization header. The scheme
// prefix is optional and case-insensitive.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[len("bearer "):])
	}
	return raw
}

// Auth validates a bearer token, confirms its session is still live, and
// seeds the request context with the caller's identity.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deny := func(err error) {
				responses.WriteError(r.Context(), logg, w, err)
			}

			token := bearerToken(r)
			if token == "" {
				deny(pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				deny(pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				deny(pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				live, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					deny(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !live {
					deny(pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			ctx = context.WithValue(ctx, ctxAccessID, claims.ID)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
