// Package domain holds fakturo's business types, the store and service
// contracts between layers, typed errors and request-scoped context helpers.
//
// Every business-owned record is read and written through the business id
// carried by the Session, so a handler cannot reach another business's data
// without going through RequireBusinessID.
package domain

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	sessionContextKey contextKey = iota
	requestIDContextKey
)

// Theme is the UI colour scheme the member last chose.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Session is the authenticated caller: who they are, which business they
// act for, and the language and theme their client is using. It is
// installed by the auth middleware from the bearer token and read anywhere
// downstream without threading parameters.
type Session struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	Email      string
	Role       MemberRole
	Language   string
	Theme      Theme
}

// NewContextWithSession returns a copy of ctx carrying s.
func NewContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFromContext returns the session, or nil for anonymous requests.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey).(*Session)
	return s
}

// BusinessIDFromContext returns the session's business id or uuid.Nil.
func BusinessIDFromContext(ctx context.Context) uuid.UUID {
	if s := SessionFromContext(ctx); s != nil {
		return s.BusinessID
	}
	return uuid.Nil
}

// RequireBusinessID returns the session's business id, or
// ErrSessionRequired when the request is anonymous.
func RequireBusinessID(ctx context.Context) (uuid.UUID, error) {
	id := BusinessIDFromContext(ctx)
	if id == uuid.Nil {
		return uuid.Nil, ErrSessionRequired
	}
	return id, nil
}

// LanguageFromContext returns the session language, defaulting to "en".
func LanguageFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil && s.Language != "" {
		return s.Language
	}
	return DefaultLanguage
}

// NewContextWithRequestID returns a copy of ctx carrying the request id.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
