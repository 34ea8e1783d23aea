package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/config"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/catalog"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/chaos"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/handler"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/otp"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/cache"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/tenant"
)

// backends holds every stateful dependency. Anything not configured falls
// back to an in-memory or no-op implementation.
type backends struct {
	catalog       catalog.Catalog
	accounts      repository.AccountRepository
	ledger        repository.LedgerRepository
	limits        repository.LimitRepository
	investments   repository.InvestmentRepository
	notifications repository.NotificationRepository
	verifier      otp.Verifier
	issuer        otp.Issuer
	publisher     events.Publisher
	tenant        usecase.TenantAPI
	checks        map[string]handler.Pinger

	closers []func()
	logger  *zap.Logger
}

func openBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backends, error) {
	b := &backends{
		catalog:       newCatalog(cfg),
		accounts:      repository.NewStaticAccounts(),
		notifications: repository.NewMemoryNotifications(nil),
		publisher:     events.Noop,
		tenant:        tenant.NewClient(cfg.Tenant.BaseURL, cfg.Tenant.TenantID, cfg.Tenant.Timeout, logger),
		checks:        map[string]handler.Pinger{},
		logger:        logger,
	}
	ok := false
	defer func() {
		if !ok {
			b.close()
		}
	}()

	if cfg.Database.Enabled() {
		pool, err := config.ConnectDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.checks["postgres"] = pool
		b.ledger = repository.NewPgLedger(pool)
		b.investments = repository.NewPgInvestments(pool)
		logger.Info("postgres repositories ready", zap.Int32("max_conns", pool.Config().MaxConns))
	} else {
		logger.Info("DB_HOST not set, keeping history and investments in memory")
		b.ledger = repository.NewMemoryLedger()
		b.investments = repository.NewMemoryInvestments()
	}

	var c *cache.Cache
	if cfg.Redis.Enabled() {
		c = cache.NewCache(cfg.Redis.Addrs, cfg.Redis.Password, cfg.Redis.Cluster)
		b.closers = append(b.closers, func() { _ = c.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		b.checks["redis"] = c
		b.limits = repository.NewRedisLimits(c)
		logger.Info("redis connected", zap.Strings("addrs", cfg.Redis.Addrs))
	} else {
		mem := repository.NewMemoryLimits()
		janitor, err := mem.StartJanitor(logger)
		if err != nil {
			return nil, fmt.Errorf("start limit janitor: %w", err)
		}
		b.closers = append(b.closers, func() { stopCron(janitor) })
		b.limits = mem
		logger.Info("REDIS_ADDR not set, limit counters kept in memory")
	}

	switch cfg.OTP.Mode {
	case config.OTPModeRedis:
		limiter := otp.NewLimiter(c, cfg.OTP.Window, cfg.OTP.MaxRequests, cfg.OTP.Cooldown)
		store := otp.NewStore(c, limiter, cfg.OTP.TTL, cfg.OTP.MaxAttempts, logger)
		b.verifier, b.issuer = store, store
	case config.OTPModeTOTP:
		b.verifier = otp.NewTOTP(otp.SharedSecret(cfg.OTP.TOTPSecret), time.Now)
	default:
		b.verifier = otp.NewStatic(cfg.OTP.StaticCodes...)
	}
	logger.Info("otp verifier ready", zap.String("mode", cfg.OTP.Mode))

	if cfg.Kafka.Enabled() {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		pub := events.NewKafkaPublisher(writer, logger)
		b.closers = append(b.closers, func() {
			if err := pub.Close(); err != nil {
				logger.Warn("failed to close kafka writer", zap.Error(err))
			}
		})
		b.publisher = pub
		logger.Info("kafka publisher ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	ok = true
	return b, nil
}

func newCatalog(cfg *config.Config) *catalog.Static {
	opts := make([]catalog.Option, 0, len(cfg.ProviderStatus))
	for id, status := range cfg.ProviderStatus {
		opts = append(opts, catalog.WithStatus(id, status))
	}
	return catalog.NewStatic(opts...)
}

func simulationOptions(sim config.SimulationConfig) []usecase.Option {
	src := chaos.GlobalRandom
	if sim.Seed != 0 {
		src = chaos.Seeded(sim.Seed)
	}
	return []usecase.Option{
		usecase.WithRandom(src),
		usecase.WithFaults(chaos.NewRandom(sim.FaultRate, src)),
		usecase.WithReaderFaults(chaos.NewRandom(sim.ReaderFaultRate, src)),
		usecase.WithReaderDelay(sim.ReaderDelay),
	}
}

func stopCron(c *cron.Cron) {
	ctx := c.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

// close runs closers in reverse order of opening.
func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
