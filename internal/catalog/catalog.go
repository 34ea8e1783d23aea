package catalog

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

// Catalog is the reference data behind payments and investments. The static
// implementation below is the default; a backend-fed one only has to satisfy
// the same lookups.
type Catalog interface {
	Providers(ctx context.Context) ([]domain.Provider, error)
	Provider(ctx context.Context, id string) (domain.Provider, error)
	BillRule(ctx context.Context, providerID string) (BillRule, error)
	Merchant(ctx context.Context, providerID string) (MerchantProfile, error)
	Promotions(ctx context.Context) ([]domain.Promotion, error)
	Products(ctx context.Context) ([]domain.InvestmentProduct, error)
	Product(ctx context.Context, id string) (domain.InvestmentProduct, error)
}

// BillRule checks a utility reference and describes the simulated bill
// returned when it matches.
type BillRule struct {
	Pattern   *regexp.Regexp
	Message   string
	Customer  string
	Address   string
	MinAmount int64
	MaxAmount int64
	DueIn     time.Duration
}

func (r BillRule) Match(billNumber string) bool {
	return r.Pattern.MatchString(billNumber)
}

// MerchantProfile is the canned order a merchant returns for a valid number.
type MerchantProfile struct {
	Pattern        *regexp.Regexp
	Message        string
	Customer       string
	Location       string
	Amount         decimal.Decimal
	OrderReference string
}

func (m MerchantProfile) Match(orderNumber string) bool {
	return m.Pattern.MatchString(orderNumber)
}
