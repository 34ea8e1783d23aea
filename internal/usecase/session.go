package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/tenant"
)

const maxKnownSessions = 4096

// SessionVerifier decides which user a session token belongs to. With a
// signing key it checks the HMAC signature locally; without one it asks the
// tenant API (/auth/me) and remembers the answer for a while. A token it
// cannot vouch for keeps its Token but gets no UserID.
type SessionVerifier struct {
	key    []byte
	api    TenantAPI
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu    sync.Mutex
	known map[string]knownSession
}

type knownSession struct {
	userID string
	until  time.Time
}

func NewSessionVerifier(key []byte, api TenantAPI, ttl time.Duration, now func() time.Time, logger *zap.Logger) *SessionVerifier {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &SessionVerifier{
		key:    key,
		api:    api,
		ttl:    ttl,
		now:    now,
		logger: logger,
		known:  make(map[string]knownSession),
	}
}

// Resolve returns the session for token. Expired tokens are returned as is
// so the caller can drop them.
func (v *SessionVerifier) Resolve(ctx context.Context, token string) Session {
	s := ParseSession(token)
	s.UserID = ""
	if token == "" || s.Expired(v.now()) {
		return s
	}

	if len(v.key) > 0 {
		s.UserID = v.verifySignature(token)
		return s
	}
	if v.api == nil {
		return s
	}

	if userID, ok := v.lookup(token); ok {
		s.UserID = userID
		return s
	}

	u, err := v.api.Me(ctx, token)
	switch {
	case err == nil && u != nil && u.ID != "":
		s.UserID = u.ID
		v.remember(token, u.ID, s.ExpiresAt)
	case err == nil, errors.Is(err, tenant.ErrUnauthorized):
		v.logger.Debug("session token rejected by tenant api")
		v.remember(token, "", s.ExpiresAt)
	default:
		v.logger.Warn("failed to resolve session", zap.Error(err))
	}
	return s
}

func (v *SessionVerifier) verifySignature(token string) string {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}), jwt.WithTimeFunc(v.now))
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil || !parsed.Valid {
		v.logger.Debug("untrusted session token", zap.Error(err))
		return ""
	}
	return claims.Subject
}

func (v *SessionVerifier) lookup(token string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	k, ok := v.known[token]
	if !ok {
		return "", false
	}
	if !v.now().Before(k.until) {
		delete(v.known, token)
		return "", false
	}
	return k.userID, true
}

func (v *SessionVerifier) remember(token, userID string, expiresAt time.Time) {
	now := v.now()
	until := now.Add(v.ttl)
	if !expiresAt.IsZero() && expiresAt.Before(until) {
		until = expiresAt
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.known) >= maxKnownSessions {
		for t, k := range v.known {
			if !now.Before(k.until) {
				delete(v.known, t)
			}
		}
		if len(v.known) >= maxKnownSessions {
			v.known = make(map[string]knownSession)
		}
	}
	v.known[token] = knownSession{userID: userID, until: until}
}
