package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

// AnonymousUser owns the simulated data of visitors without a session.
const AnonymousUser = "anonymous"

type contextKey string

const contextSession contextKey = "session"

// SessionFrom returns the session attached by Sessions, if any.
func SessionFrom(ctx context.Context) (usecase.Session, bool) {
	s, ok := ctx.Value(contextSession).(usecase.Session)
	return s, ok && s.Token != ""
}

// UserID is the owner of per-user simulated state for this request. Only a
// resolved session carries one; anything else shares the anonymous state.
func UserID(ctx context.Context) string {
	if s, ok := SessionFrom(ctx); ok && s.UserID != "" {
		return s.UserID
	}
	return AnonymousUser
}

// verifiedUserID is UserID without the anonymous fallback.
func verifiedUserID(ctx context.Context) string {
	if s, ok := SessionFrom(ctx); ok {
		return s.UserID
	}
	return ""
}

func extractToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// SessionResolver establishes who owns a session token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) usecase.Session
}

// Sessions reads the session token from the cookie (or a bearer header) and
// attaches it to the request context. Expired tokens are dropped. Without a
// resolver, tokens are kept for forwarding but every request is anonymous.
func Sessions(cookieName string, resolver SessionResolver, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, cookieName)
			if token != "" {
				var s usecase.Session
				if resolver != nil {
					s = resolver.Resolve(r.Context(), token)
				} else {
					s = usecase.ParseSession(token)
					s.UserID = ""
				}
				if !s.Expired(now()) {
					r = r.WithContext(context.WithValue(r.Context(), contextSession, s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests that carry no usable token.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r.Context()); !ok {
			response.Error(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
