package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

const (
	OTPModeStatic = "static"
	OTPModeRedis  = "redis"
	OTPModeTOTP   = "totp"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	OTP        OTPConfig
	Limits     domain.LimitPolicy
	Simulation SimulationConfig
	Tenant     TenantConfig
	Session    SessionConfig

	// ProviderStatus overrides the catalog status of individual providers.
	ProviderStatus map[string]domain.ProviderStatus
}

type ServerConfig struct {
	HTTPAddr        string
	GRPCAddr        string
	Env             string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

func (s ServerConfig) Production() bool {
	return s.Env == "production"
}

// DatabaseConfig is optional. An empty Host keeps history and investments
// in memory.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addrs    []string
	Password string
	Cluster  bool
}

func (r RedisConfig) Enabled() bool {
	return len(r.Addrs) > 0
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type OTPConfig struct {
	Mode        string
	StaticCodes []string
	TTL         time.Duration
	Window      time.Duration
	MaxRequests int
	Cooldown    time.Duration
	MaxAttempts int
	TOTPSecret  string
}

// SimulationConfig tunes the artificial delays and injected faults of the
// simulated flows.
type SimulationConfig struct {
	FaultRate       float64
	ReaderFaultRate float64
	ReaderDelay     time.Duration
	// Seed makes the random source deterministic when non-zero.
	Seed uint64
}

type TenantConfig struct {
	BaseURL  string
	TenantID string
	Timeout  time.Duration
}

type SessionConfig struct {
	CookieName  string
	Secure      bool
	// JWTSecret verifies tenant tokens locally. When empty, identities are
	// resolved through the tenant /auth/me endpoint and cached for IdentityTTL.
	JWTSecret   string
	IdentityTTL time.Duration
}

func Load(logger *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	env := getEnv("ENV", "development")
	cfg := &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			GRPCAddr:        getEnv("GRPC_ADDR", ":9090"),
			Env:             env,
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSOrigins:     parseCSVEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "ebanking"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 20),
			MinConns:        getEnvInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addrs:    parseCSVEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASS", ""),
			Cluster:  getEnvBool("REDIS_CLUSTER", false),
		},
		Kafka: KafkaConfig{
			Brokers: parseCSVEnv("KAFKA_BROKERS", ""),
			Topic:   getEnv("KAFKA_TOPIC", "ebanking.events"),
		},
		OTP: OTPConfig{
			Mode:        strings.ToLower(getEnv("OTP_MODE", OTPModeStatic)),
			StaticCodes: parseCSVEnv("OTP_STATIC_CODES", ""),
			TTL:         getEnvDuration("OTP_TTL", 5*time.Minute),
			Window:      getEnvDuration("OTP_WINDOW", 15*time.Minute),
			MaxRequests: getEnvInt("OTP_MAX_REQUESTS", 5),
			Cooldown:    getEnvDuration("OTP_COOLDOWN", 30*time.Second),
			MaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 5),
			TOTPSecret:  getEnv("TOTP_SECRET", ""),
		},
		Limits: domain.LimitPolicy{
			Daily:   getEnvDecimal("DAILY_LIMIT", decimal.NewFromInt(5_000_000)),
			Monthly: getEnvDecimal("MONTHLY_LIMIT", decimal.NewFromInt(20_000_000)),
		},
		Simulation: SimulationConfig{
			FaultRate:       getEnvFloat("FAULT_RATE", 0.02),
			ReaderFaultRate: getEnvFloat("READER_FAULT_RATE", 0.05),
			ReaderDelay:     getEnvDuration("READER_DELAY", 300*time.Millisecond),
			Seed:            uint64(getEnvInt("SIMULATION_SEED", 0)),
		},
		Tenant: TenantConfig{
			BaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000/api"), "/"),
			TenantID: getEnv("TENANT_ID", ""),
			Timeout:  getEnvDuration("API_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			CookieName:  getEnv("SESSION_COOKIE_NAME", "token"),
			Secure:      getEnvBool("SESSION_COOKIE_SECURE", env == "production"),
			JWTSecret:   getEnv("JWT_SECRET", ""),
			IdentityTTL: getEnvDuration("SESSION_IDENTITY_TTL", 5*time.Minute),
		},
	}

	statuses, err := parseProviderStatus(getEnv("PROVIDER_STATUS", ""))
	if err != nil {
		return nil, err
	}
	cfg.ProviderStatus = statuses

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Tenant.TenantID == "" {
		logger.Warn("TENANT_ID is empty, reclamation and auth calls will fail")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.OTP.Mode {
	case OTPModeStatic:
	case OTPModeRedis:
		if !c.Redis.Enabled() {
			return errors.New("OTP_MODE=redis requires REDIS_ADDR")
		}
	case OTPModeTOTP:
		if c.OTP.TOTPSecret == "" {
			return errors.New("OTP_MODE=totp requires TOTP_SECRET")
		}
	default:
		return fmt.Errorf("unknown OTP_MODE %q", c.OTP.Mode)
	}

	if !c.Limits.Daily.IsPositive() || !c.Limits.Monthly.IsPositive() {
		return errors.New("DAILY_LIMIT and MONTHLY_LIMIT must be positive")
	}
	if c.Limits.Daily.GreaterThan(c.Limits.Monthly) {
		return errors.New("DAILY_LIMIT cannot exceed MONTHLY_LIMIT")
	}

	for name, rate := range map[string]float64{
		"FAULT_RATE":        c.Simulation.FaultRate,
		"READER_FAULT_RATE": c.Simulation.ReaderFaultRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, rate)
		}
	}
	return nil
}

// parseProviderStatus reads "mtn=available,canal=maintenance".
func parseProviderStatus(v string) (map[string]domain.ProviderStatus, error) {
	out := map[string]domain.ProviderStatus{}
	if strings.TrimSpace(v) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(v, ",") {
		id, status, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid PROVIDER_STATUS entry %q", pair)
		}
		s := domain.ProviderStatus(strings.TrimSpace(status))
		switch s {
		case domain.StatusAvailable, domain.StatusMaintenance, domain.StatusUnavailable:
		default:
			return nil, fmt.Errorf("invalid status %q for provider %s", status, id)
		}
		out[strings.TrimSpace(id)] = s
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolVal, err := strconv.ParseBool(value)
		if err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCSVEnv(key, fallback string) []string {
	val := getEnv(key, fallback)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
