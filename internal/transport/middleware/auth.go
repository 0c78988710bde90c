package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
)

// TokenVerifier resolves a bearer token to the request principal.
type TokenVerifier interface {
	VerifyToken(token string) (*internal.User, error)
}

// Authenticate requires a valid bearer token and stores the principal in the request context.
func Authenticate(verifier TokenVerifier, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.ExtractTokenFromHeader(r)
			if token == "" {
				base.WriteError(w, internal.ErrMissingToken)
				return
			}

			user, err := verifier.VerifyToken(token)
			if err != nil {
				appErr, ok := internal.IsAppError(err)
				if !ok {
					appErr = internal.ErrInvalidToken
				}
				base.Logger.Debug("token rejected", "code", appErr.Code, "path", r.URL.Path)
				base.WriteError(w, appErr)
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r, user)))
		})
	}
}

// OptionalAuthenticate attaches the principal when a valid token is present and never rejects.
func OptionalAuthenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := transport.ExtractTokenFromHeader(r); token != "" {
				if user, err := verifier.VerifyToken(token); err == nil {
					r = r.WithContext(withPrincipal(r, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles allows the request through only when the principal's role is in roleIDs.
func RequireRoles(base *transport.BaseHandler, roleIDs ...int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				base.WriteError(w, internal.ErrMissingToken)
				return
			}

			if !user.HasRole(roleIDs...) {
				base.Logger.Warn("access denied: role not allowed",
					"user_id", user.ID,
					"role_id", user.RoleID,
					"allowed_roles", roleIDs)
				base.WriteError(w, internal.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func withPrincipal(r *http.Request, user *internal.User) context.Context {
	ctx := internal.ContextWithUser(r.Context(), user)
	return logger.With(ctx, "user_id", user.ID)
}
