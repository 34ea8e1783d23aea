package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

// MemoryLedger keeps history in process. Each user starts with a few
// past payments so the history page is never empty.
type MemoryLedger struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string][]domain.LedgerEntry
	seeded  map[string]bool
	noSeed  bool
}

type MemoryLedgerOption func(*MemoryLedger)

func WithLedgerClock(now func() time.Time) MemoryLedgerOption {
	return func(l *MemoryLedger) { l.now = now }
}

// WithoutSeed starts every user with an empty history.
func WithoutSeed() MemoryLedgerOption {
	return func(l *MemoryLedger) { l.noSeed = true }
}

func NewMemoryLedger(opts ...MemoryLedgerOption) *MemoryLedger {
	l := &MemoryLedger{
		now:     time.Now,
		entries: map[string][]domain.LedgerEntry{},
		seeded:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLedger) Append(ctx context.Context, entry domain.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seedLocked(entry.UserID)
	l.entries[entry.UserID] = append(l.entries[entry.UserID], entry)
	return nil
}

func (l *MemoryLedger) List(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seedLocked(filter.UserID)
	out := make([]domain.LedgerEntry, 0, len(l.entries[filter.UserID]))
	for _, e := range l.entries[filter.UserID] {
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (l *MemoryLedger) seedLocked(userID string) {
	if l.noSeed || l.seeded[userID] {
		return
	}
	l.seeded[userID] = true
	l.entries[userID] = append(l.entries[userID], cannedHistory(userID, l.now())...)
}

func cannedHistory(userID string, now time.Time) []domain.LedgerEntry {
	row := func(daysAgo int, kind domain.EntryKind, providerID, name, bill string, amount, fee int64, suffix int) domain.LedgerEntry {
		at := now.AddDate(0, 0, -daysAgo)
		ref := domain.PaymentReference("F", at, suffix)
		switch kind {
		case domain.EntryMerchant:
			ref = domain.PaymentReference("M", at, suffix)
		case domain.EntryFunds:
			ref = domain.ProvisionReference(at, suffix)
		}
		a, f := decimal.NewFromInt(amount), decimal.NewFromInt(fee)
		return domain.LedgerEntry{
			Reference:     ref,
			UserID:        userID,
			Kind:          kind,
			ProviderID:    providerID,
			ProviderName:  name,
			BillNumber:    bill,
			SourceAccount: "acc_001",
			Amount:        a,
			Fee:           f,
			Total:         a.Add(f),
			Status:        "completed",
			CreatedAt:     at,
		}
	}

	return []domain.LedgerEntry{
		row(2, domain.EntryBill, "edg", "Électricité de Guinée", "12345678", 150000, 1000, 217),
		row(5, domain.EntryBill, "orange", "Orange Guinée", "622123456", 50000, 500, 482),
		row(9, domain.EntryMerchant, "espace", "Espace Kaloum", "ESP20240142", 275000, 500, 39),
		row(20, domain.EntryBill, "seg", "Société des Eaux de Guinée", "87654321", 75000, 1000, 661),
		row(35, domain.EntryFunds, "", "KABA Moussa", "", 500000, 0, 1204),
	}
}
