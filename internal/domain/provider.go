package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProviderType string
type ProviderStatus string

const (
	ProviderUtility  ProviderType = "utility"
	ProviderMerchant ProviderType = "merchant"
)

const (
	StatusAvailable   ProviderStatus = "available"
	StatusMaintenance ProviderStatus = "maintenance"
	StatusUnavailable ProviderStatus = "unavailable"
)

// Provider is a utility company or merchant able to receive a payment.
type Provider struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           ProviderType    `json:"type"`
	Category       string          `json:"category"`
	Status         ProviderStatus  `json:"status"`
	ProcessingTime time.Duration   `json:"-"`
	Fee            decimal.Decimal `json:"fee"`
}

func (p Provider) Available() bool {
	return p.Status == StatusAvailable
}

// ReferencePrefix is "F" for utility bills (factures) and "M" for merchants.
func (p Provider) ReferencePrefix() string {
	if p.Type == ProviderMerchant {
		return "M"
	}
	return "F"
}

// BillRecord is what a successful bill/order number lookup returns.
type BillRecord struct {
	ProviderID     string          `json:"providerId"`
	ProviderName   string          `json:"providerName"`
	Type           ProviderType    `json:"type"`
	BillNumber     string          `json:"billNumber"`
	CustomerName   string          `json:"customerName"`
	Address        string          `json:"address,omitempty"`
	Location       string          `json:"merchantLocation,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	OrderReference string          `json:"orderReference,omitempty"`
}

type Promotion struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"providerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ValidUntil  time.Time `json:"validUntil"`
}
