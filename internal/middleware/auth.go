package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/fakturo/internal/auth"
	"github.com/dukerupert/fakturo/internal/domain"
)

// TokenParser turns a bearer token into a session.
type TokenParser interface {
	Parse(raw string) (*domain.Session, error)
}

const authErrorContextKey contextKey = "auth_error"

// Authenticate installs the session described by an Authorization: Bearer
// header. Requests without a valid token pass through anonymously so
// public links keep working; RequireAuth reports why the token failed.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			session, err := tokens.Parse(raw)
			if err != nil {
				ctx := context.WithValue(r.Context(), authErrorContextKey, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := domain.NewContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.SessionFromContext(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="fakturo"`)
			respondUnauthorized(w, r, unauthorizedMessage(r))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwner allows only the business owner through. Must run after
// Authenticate.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := domain.SessionFromContext(r.Context())
		if session == nil {
			respondUnauthorized(w, r, "Authentication required")
			return
		}

		if session.Role != domain.RoleOwner {
			GetLogger(r.Context()).Warn("owner required",
				slog.String("user_id", session.UserID.String()),
				slog.String("role", string(session.Role)),
			)
			respondForbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorizedMessage(r *http.Request) string {
	err, _ := r.Context().Value(authErrorContextKey).(error)
	switch {
	case err == nil:
		return "Authentication required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	default:
		return "Invalid token"
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
