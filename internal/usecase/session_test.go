package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/tenant"
)

// meTenant answers /auth/me for one known token.
type meTenant struct {
	fakeTenant
	valid string
	err   error
	calls atomic.Int32
}

func (m *meTenant) Me(_ context.Context, token string) (*tenant.User, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	if token != m.valid {
		return nil, tenant.ErrUnauthorized
	}
	return &tenant.User{ID: "u1"}, nil
}

func keyedToken(t *testing.T, key, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func TestSessionVerifier_SigningKey(t *testing.T) {
	now := testNow
	v := NewSessionVerifier([]byte("portal-key"), nil, time.Minute, func() time.Time { return now }, zap.NewNop())
	ctx := context.Background()

	s := v.Resolve(ctx, keyedToken(t, "portal-key", "u42", now.Add(time.Hour)))
	assert.Equal(t, "u42", s.UserID)

	s = v.Resolve(ctx, keyedToken(t, "attacker-key", "u42", now.Add(time.Hour)))
	assert.Empty(t, s.UserID)
	assert.NotEmpty(t, s.Token)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u42"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Empty(t, v.Resolve(ctx, none).UserID)

	s = v.Resolve(ctx, keyedToken(t, "portal-key", "u42", now.Add(-time.Minute)))
	assert.True(t, s.Expired(now))
	assert.Empty(t, s.UserID)
}

func TestSessionVerifier_TenantLookup(t *testing.T) {
	now := testNow
	good := keyedToken(t, "tenant", "u1", now.Add(time.Hour))
	forged := keyedToken(t, "attacker-key", "u1", now.Add(time.Hour))
	api := &meTenant{valid: good}
	v := NewSessionVerifier(nil, api, time.Minute, func() time.Time { return now }, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, "u1", v.Resolve(ctx, good).UserID)
	assert.Equal(t, "u1", v.Resolve(ctx, good).UserID)
	assert.Equal(t, int32(1), api.calls.Load())

	assert.Empty(t, v.Resolve(ctx, forged).UserID)
	assert.Empty(t, v.Resolve(ctx, forged).UserID)
	assert.Equal(t, int32(2), api.calls.Load())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, "u1", v.Resolve(ctx, good).UserID)
	assert.Equal(t, int32(3), api.calls.Load())
}

func TestSessionVerifier_TenantDown(t *testing.T) {
	api := &meTenant{err: errors.New("connection refused")}
	v := NewSessionVerifier(nil, api, time.Minute, fixedClock, zap.NewNop())
	tok := keyedToken(t, "tenant", "u1", testNow.Add(time.Hour))

	assert.Empty(t, v.Resolve(context.Background(), tok).UserID)
	assert.Empty(t, v.Resolve(context.Background(), tok).UserID)
	// Failures other than a rejection are retried.
	assert.Equal(t, int32(2), api.calls.Load())
}

func TestSessionVerifier_NoVerifier(t *testing.T) {
	v := NewSessionVerifier(nil, nil, 0, nil, zap.NewNop())
	s := v.Resolve(context.Background(), keyedToken(t, "k", "u1", time.Now().Add(time.Hour)))
	assert.Empty(t, s.UserID)
}
