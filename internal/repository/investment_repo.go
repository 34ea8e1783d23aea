package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

type MemoryInvestments struct {
	mu    sync.RWMutex
	items []domain.Investment
}

func NewMemoryInvestments() *MemoryInvestments {
	return &MemoryInvestments{}
}

func (r *MemoryInvestments) Create(ctx context.Context, inv *domain.Investment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *inv)
	return nil
}

func (r *MemoryInvestments) ListByUser(ctx context.Context, userID string) ([]domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Investment
	for _, inv := range r.items {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
