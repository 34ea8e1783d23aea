package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

type AccountRepository interface {
	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
}

// LedgerRepository holds the payment history shown to the customer.
type LedgerRepository interface {
	Append(ctx context.Context, entry domain.LedgerEntry) error
	List(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)
}

// LimitRepository tracks funds-provision usage per calendar day and month.
type LimitRepository interface {
	Usage(ctx context.Context, userID string, at time.Time) (domain.Usage, error)
	// Reserve checks amount against policy and records it in one step.
	// It returns the usage after the reservation, or a domain.Problem
	// wrapping ErrDailyLimitExceeded / ErrMonthlyLimitExceeded.
	Reserve(ctx context.Context, userID string, amount decimal.Decimal, policy domain.LimitPolicy, at time.Time) (domain.Usage, error)
}

type InvestmentRepository interface {
	Create(ctx context.Context, inv *domain.Investment) error
	ListByUser(ctx context.Context, userID string) ([]domain.Investment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) error
}

func dayKey(at time.Time) string   { return at.Format("20060102") }
func monthKey(at time.Time) string { return at.Format("200601") }

