package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

// MemoryLimits keys usage by period ("daily:<user>:20261019"), so a new day
// starts at zero on its own. The cron janitor only drops finished periods.
type MemoryLimits struct {
	mu    sync.Mutex
	usage map[string]decimal.Decimal
}

func NewMemoryLimits() *MemoryLimits {
	return &MemoryLimits{usage: map[string]decimal.Decimal{}}
}

func (m *MemoryLimits) Usage(ctx context.Context, userID string, at time.Time) (domain.Usage, error) {
	if err := ctx.Err(); err != nil {
		return domain.Usage{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usageLocked(userID, at), nil
}

func (m *MemoryLimits) Reserve(ctx context.Context, userID string, amount decimal.Decimal, policy domain.LimitPolicy, at time.Time) (domain.Usage, error) {
	if err := ctx.Err(); err != nil {
		return domain.Usage{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	usage := m.usageLocked(userID, at)
	if err := domain.CheckLimits(policy, usage, amount); err != nil {
		return usage, err
	}

	usage.Daily = usage.Daily.Add(amount)
	usage.Monthly = usage.Monthly.Add(amount)
	m.usage["daily:"+userID+":"+dayKey(at)] = usage.Daily
	m.usage["monthly:"+userID+":"+monthKey(at)] = usage.Monthly
	return usage, nil
}

func (m *MemoryLimits) usageLocked(userID string, at time.Time) domain.Usage {
	return domain.Usage{
		Daily:   m.usage["daily:"+userID+":"+dayKey(at)],
		Monthly: m.usage["monthly:"+userID+":"+monthKey(at)],
	}
}

// Prune removes counters that do not belong to the period containing at.
func (m *MemoryLimits) Prune(at time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	day, month := dayKey(at), monthKey(at)
	removed := 0
	for k := range m.usage {
		switch {
		case strings.HasPrefix(k, "daily:") && !strings.HasSuffix(k, ":"+day),
			strings.HasPrefix(k, "monthly:") && !strings.HasSuffix(k, ":"+month):
			delete(m.usage, k)
			removed++
		}
	}
	return removed
}

// StartJanitor schedules Prune at every day start, which also covers the
// first of the month. Stop the returned cron on shutdown.
func (m *MemoryLimits) StartJanitor(logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", func() {
		n := m.Prune(time.Now())
		logger.Info("limit counters pruned", zap.Int("removed", n))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
