package catalog

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

var (
	meterNumber = regexp.MustCompile(`^\d{8}$`)
	phoneNumber = regexp.MustCompile(`^6\d{8}$`)
)

type Static struct {
	mu         sync.RWMutex
	order      []string
	providers  map[string]domain.Provider
	rules      map[string]BillRule
	merchants  map[string]MerchantProfile
	promotions []domain.Promotion
	products   []domain.InvestmentProduct
}

type Option func(*Static)

// WithStatus overrides the status of a known provider.
func WithStatus(providerID string, status domain.ProviderStatus) Option {
	return func(s *Static) {
		if p, ok := s.providers[providerID]; ok {
			p.Status = status
			s.providers[providerID] = p
		}
	}
}

func WithFee(providerID string, fee decimal.Decimal) Option {
	return func(s *Static) {
		if p, ok := s.providers[providerID]; ok {
			p.Fee = fee
			s.providers[providerID] = p
		}
	}
}

// WithProcessingTime sets the same simulated delay on every provider.
func WithProcessingTime(d time.Duration) Option {
	return func(s *Static) {
		for id, p := range s.providers {
			p.ProcessingTime = d
			s.providers[id] = p
		}
	}
}

// WithProvider registers an extra provider, replacing any with the same id.
func WithProvider(p domain.Provider) Option {
	return func(s *Static) {
		if _, ok := s.providers[p.ID]; !ok {
			s.order = append(s.order, p.ID)
		}
		s.providers[p.ID] = p
	}
}

func NewStatic(opts ...Option) *Static {
	s := &Static{
		providers: map[string]domain.Provider{},
		rules:     map[string]BillRule{},
		merchants: map[string]MerchantProfile{},
	}
	seed(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Static) Providers(_ context.Context) ([]domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Provider, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.providers[id])
	}
	return out, nil
}

func (s *Static) Provider(_ context.Context, id string) (domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.providers[id]
	if !ok {
		return domain.Provider{}, domain.ErrProviderNotFound
	}
	return p, nil
}

func (s *Static) BillRule(_ context.Context, providerID string) (BillRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[providerID]
	if !ok {
		return BillRule{}, domain.ErrProviderNotFound
	}
	return r, nil
}

func (s *Static) Merchant(_ context.Context, providerID string) (MerchantProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.merchants[providerID]
	if !ok {
		return MerchantProfile{}, domain.ErrMerchantUnknown
	}
	return m, nil
}

func (s *Static) Promotions(_ context.Context) ([]domain.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Promotion(nil), s.promotions...), nil
}

func (s *Static) Products(_ context.Context) ([]domain.InvestmentProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.InvestmentProduct(nil), s.products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinAmount.LessThan(out[j].MinAmount) })
	return out, nil
}

func (s *Static) Product(_ context.Context, id string) (domain.InvestmentProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.InvestmentProduct{}, domain.ErrProductNotFound
}
