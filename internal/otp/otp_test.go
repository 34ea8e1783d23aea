package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/cache"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	v := NewStatic()

	for _, code := range DefaultCodes {
		ok, err := v.Verify(ctx, "u1", "funds", code)
		require.NoError(t, err)
		assert.True(t, ok, code)
	}
	ok, err := v.Verify(ctx, "u1", "funds", "999999")
	require.NoError(t, err)
	assert.False(t, ok)

	custom := NewStatic("424242")
	ok, _ = custom.Verify(ctx, "u1", "funds", "123456")
	assert.False(t, ok)
}

func TestTOTP(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)
	secret := "JBSWY3DPEHPK3PXP"

	code, err := totp.GenerateCode(secret, now)
	require.NoError(t, err)

	v := NewTOTP(SharedSecret(secret), func() time.Time { return now })
	ok, err := v.Verify(ctx, "u1", "funds", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(ctx, "u1", "funds", "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	later := NewTOTP(SharedSecret(secret), func() time.Time { return now.Add(10 * time.Minute) })
	ok, err = later.Verify(ctx, "u1", "funds", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func newCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewFromClient(client), mr
}

func TestStore_IssueAndVerifyOnce(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	s := NewStore(c, nil, 5*time.Minute, 0, zap.NewNop())

	code, err := s.Issue(ctx, "u1", "funds")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code.Value)
	assert.Equal(t, 5*time.Minute, code.ExpiresIn)

	ok, err := s.Verify(ctx, "u1", "investment", code.Value)
	require.NoError(t, err)
	assert.False(t, ok, "codes are scoped to their purpose")

	ok, err = s.Verify(ctx, "u1", "funds", code.Value)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "u1", "funds", code.Value)
	require.NoError(t, err)
	assert.False(t, ok, "codes are single use")
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	s := NewStore(c, nil, time.Minute, 0, zap.NewNop())

	code, err := s.Issue(ctx, "u1", "funds")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	ok, err := s.Verify(ctx, "u1", "funds", code.Value)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_DiscardsCodeAfterRepeatedMisses(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	s := NewStore(c, nil, 5*time.Minute, 3, zap.NewNop())

	code, err := s.Issue(ctx, "u1", "funds")
	require.NoError(t, err)
	wrong := "000000"
	if code.Value == wrong {
		wrong = "111111"
	}

	for i := 0; i < 2; i++ {
		ok, err := s.Verify(ctx, "u1", "funds", wrong)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.True(t, mr.Exists("otp:u1:funds"))

	ok, err := s.Verify(ctx, "u1", "funds", wrong)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("otp:u1:funds"))

	ok, err = s.Verify(ctx, "u1", "funds", code.Value)
	require.NoError(t, err)
	assert.False(t, ok, "the right code no longer works once discarded")

	// a fresh code starts with a clean slate
	code, err = s.Issue(ctx, "u1", "funds")
	require.NoError(t, err)
	assert.False(t, mr.Exists("otp_fail:u1:funds"))
	ok, err = s.Verify(ctx, "u1", "funds", code.Value)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_CheckThenConsume(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	s := NewStore(c, nil, 5*time.Minute, 0, zap.NewNop())

	code, err := s.Issue(ctx, "u1", "funds")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ok, err := s.Check(ctx, "u1", "funds", code.Value)
		require.NoError(t, err)
		assert.True(t, ok, "checking does not spend the code")
	}

	ok, err := s.Consume(ctx, "u1", "funds", code.Value)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Consume(ctx, "u1", "funds", code.Value)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	l := NewLimiter(c, 10*time.Minute, 2, 30*time.Second)

	require.NoError(t, l.CanRequest(ctx, "u1", "funds"))

	err := l.CanRequest(ctx, "u1", "funds")
	assert.ErrorIs(t, err, domain.ErrOTPRateLimited)
	assert.Contains(t, domain.UserMessage(err), "Veuillez patienter")

	mr.FastForward(31 * time.Second)
	require.NoError(t, l.CanRequest(ctx, "u1", "funds"))

	mr.FastForward(31 * time.Second)
	err = l.CanRequest(ctx, "u1", "funds")
	assert.ErrorIs(t, err, domain.ErrOTPRateLimited)
	assert.Contains(t, domain.UserMessage(err), "Trop de demandes")

	// other purposes are counted separately
	require.NoError(t, l.CanRequest(ctx, "u1", "investment"))
}
