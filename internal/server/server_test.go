package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/config"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			HTTPAddr:        "127.0.0.1:0",
			GRPCAddr:        "127.0.0.1:0",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
			CORSOrigins:     []string{"*"},
		},
		OTP: config.OTPConfig{
			Mode:        config.OTPModeStatic,
			TTL:         5 * time.Minute,
			Window:      15 * time.Minute,
			MaxRequests: 5,
			Cooldown:    30 * time.Second,
		},
		Limits: domain.LimitPolicy{
			Daily:   decimal.NewFromInt(5_000_000),
			Monthly: decimal.NewFromInt(20_000_000),
		},
		Tenant:         config.TenantConfig{BaseURL: "http://127.0.0.1:1", TenantID: "t1", Timeout: time.Second},
		Session:        config.SessionConfig{CookieName: "token"},
		ProviderStatus: map[string]domain.ProviderStatus{"mtn": domain.StatusAvailable},
	}
}

func TestOpenBackends_InMemory(t *testing.T) {
	b, err := openBackends(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer b.close()

	assert.IsType(t, &repository.MemoryLimits{}, b.limits)
	assert.IsType(t, &repository.MemoryLedger{}, b.ledger)
	assert.Nil(t, b.issuer)
	assert.Equal(t, events.Noop, b.publisher)
	assert.Empty(t, b.checks)

	p, err := b.catalog.Provider(context.Background(), "mtn")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, p.Status)
}

func TestOpenBackends_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.Addrs = []string{mr.Addr()}
	cfg.OTP.Mode = config.OTPModeRedis

	b, err := openBackends(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.close()

	assert.IsType(t, &repository.RedisLimits{}, b.limits)
	assert.NotNil(t, b.issuer)
	assert.Contains(t, b.checks, "redis")
}

func TestOpenBackends_RedisDown(t *testing.T) {
	cfg := testConfig()
	cfg.Redis.Addrs = []string{"127.0.0.1:1"}

	_, err := openBackends(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestServer_Routes(t *testing.T) {
	s, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	ts := httptest.NewServer(s.http.Handler)
	defer ts.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	code, body := get("/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"success":true`)

	code, body = get("/api/v1/bills/providers")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"id":"edg"`)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_goroutines")

	resp, err := http.Post(ts.URL+"/api/v1/bills/validate", "application/json",
		strings.NewReader(`{"billNumber":"12345678","providerId":"edg"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "DIALLO Mamadou")

	code, _ = get("/api/v1/reclamations")
	assert.Equal(t, http.StatusUnauthorized, code)
}
