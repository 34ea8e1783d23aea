package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryBill     EntryKind = "bill"
	EntryMerchant EntryKind = "merchant"
	EntryFunds    EntryKind = "funds"
)

// KindFor maps a provider type to the history kind it is filed under.
func KindFor(t ProviderType) EntryKind {
	if t == ProviderMerchant {
		return EntryMerchant
	}
	return EntryBill
}

// LedgerEntry is one row of the customer's payment history.
type LedgerEntry struct {
	Reference     string          `json:"reference"`
	UserID        string          `json:"-"`
	Kind          EntryKind       `json:"kind"`
	ProviderID    string          `json:"providerId,omitempty"`
	ProviderName  string          `json:"providerName"`
	BillNumber    string          `json:"billNumber,omitempty"`
	SourceAccount string          `json:"sourceAccount"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type LedgerFilter struct {
	UserID string
	Kind   EntryKind
	Limit  int
}

type KindStats struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
	Fees   decimal.Decimal `json:"fees"`
}

type PaymentStats struct {
	TotalCount      int                     `json:"totalCount"`
	TotalAmount     decimal.Decimal         `json:"totalAmount"`
	TotalFees       decimal.Decimal         `json:"totalFees"`
	MonthToDate     decimal.Decimal         `json:"monthToDate"`
	ByKind          map[EntryKind]KindStats `json:"byKind"`
	FavoriteProvider string                `json:"favoriteProvider,omitempty"`
}
