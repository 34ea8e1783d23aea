package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&domain.ValidationError{Field: "amount", Message: "x"}, http.StatusUnprocessableEntity},
		{domain.NewProblem(domain.ErrInsufficientFunds, "Solde insuffisant"), http.StatusUnprocessableEntity},
		{domain.ErrInvalidOTP, http.StatusUnprocessableEntity},
		{domain.ErrOTPRateLimited, http.StatusTooManyRequests},
		{domain.ErrNotificationNotFound, http.StatusNotFound},
		{domain.ErrReclamationNotFound, http.StatusNotFound},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrBadCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: 500", domain.ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("%w: chaos", domain.ErrSimulatedNetwork), http.StatusServiceUnavailable},
		{domain.ErrDataUnavailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestReadForm(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":150000,"providerId":"edg","urgent":true,"note":null}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
		f, err := readForm(r)
		require.NoError(t, err)
		assert.Equal(t, "150000", f.get("amount"))
		assert.Equal(t, "edg", f.get("providerId"))
		assert.Equal(t, "true", f.get("urgent"))
		assert.Equal(t, "", f.get("note"))
	})

	t.Run("empty json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		r.Header.Set("Content-Type", "application/json")
		f, err := readForm(r)
		require.NoError(t, err)
		assert.Empty(t, f)
	})

	t.Run("broken json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		r.Header.Set("Content-Type", "application/json")
		_, err := readForm(r)
		assert.Error(t, err)
	})

	t.Run("urlencoded", func(t *testing.T) {
		body := url.Values{"billNumber": {"12345678"}, "otp": {"123456"}}.Encode()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		f, err := readForm(r)
		require.NoError(t, err)
		assert.Equal(t, "12345678", f.get("billNumber"))
		assert.Equal(t, "123456", f.get("otpCode", "otp"))
	})

	t.Run("multipart", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("sourceAccount", "acc_001"))
		require.NoError(t, mw.Close())
		r := httptest.NewRequest(http.MethodPost, "/", &buf)
		r.Header.Set("Content-Type", mw.FormDataContentType())
		f, err := readForm(r)
		require.NoError(t, err)
		assert.Equal(t, "acc_001", f.get("sourceAccount"))
	})
}

func sessionToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	return signedSessionToken(t, "k", sub, exp)
}

func signedSessionToken(t *testing.T, key, sub string, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestSessions(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	var gotUser string
	var gotOK bool
	verifier := usecase.NewSessionVerifier([]byte("k"), nil, time.Minute, clock, zap.NewNop())
	h := Sessions("token", verifier, clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r.Context())
		_, gotOK = SessionFrom(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, AnonymousUser, gotUser)
	assert.False(t, gotOK)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: sessionToken(t, "u42", now.Add(time.Hour))})
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "u42", gotUser)
	assert.True(t, gotOK)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+sessionToken(t, "u7", now.Add(-time.Minute)))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, AnonymousUser, gotUser)
	assert.False(t, gotOK)

	// Opaque tokens are kept; the tenant API decides whether they are valid.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer opaque")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, AnonymousUser, gotUser)
	assert.True(t, gotOK)

	// A token signed with another key names nobody.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signedSessionToken(t, "other", "u42", now.Add(time.Hour)))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, AnonymousUser, gotUser)
	assert.True(t, gotOK)
}

func TestSessions_WithoutResolver(t *testing.T) {
	var gotUser string
	h := Sessions("token", nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: sessionToken(t, "u42", time.Now().Add(time.Hour))})
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, AnonymousUser, gotUser)
}

func TestRequireSession(t *testing.T) {
	h := Sessions("token", nil, nil)(RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Session expirée. Veuillez vous reconnecter."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "opaque"})
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := originChecker([]string{"*"})
	assert.True(t, open(req("https://evil.example")))

	strict := originChecker([]string{"https://portal.example"})
	assert.True(t, strict(req("https://portal.example")))
	assert.True(t, strict(req("")))
	assert.False(t, strict(req("https://evil.example")))
}
