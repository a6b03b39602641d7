package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"order-upload/internal/usecase"
	"order-upload/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a session token to its principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Principal, error)
}

// LoadSession attaches the caller's principal to the request context when a
// valid session token arrives as a Bearer header or session cookie. Requests
// without a usable token continue anonymously; the route decides whether
// that is acceptable.
func LoadSession(auth Authenticator, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrUnauthorized) {
					next.ServeHTTP(w, r)
					return
				}
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetUserContext(r.Context(), *principal)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken prefers "Authorization: Bearer <token>" over the cookie.
func SessionToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetPrincipalFromContext(r.Context()); !ok {
				logger.Debug("Anonymous request rejected", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Seller rejects anonymous and non-seller callers alike with 403.
func Seller(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := utils.GetPrincipalFromContext(r.Context())
			if !ok || !principal.IsSeller {
				logger.Warn("Seller check: access denied",
					zap.Int64("user_id", principal.UserID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Seller access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
