package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var MinPaymentAmount = decimal.NewFromInt(1000)

const (
	PaymentMethodAccount     = "account"
	PaymentMethodMobileMoney = "mobile_money"
	PaymentMethodCard        = "card"
)

// PaymentForm is a bill/merchant payment as submitted by the browser form.
type PaymentForm struct {
	ProviderID       string
	BillNumber       string
	Amount           string
	SourceAccount    string
	PaymentMethod    string
	CustomerName     string
	MerchantLocation string
	OrderReference   string
}

// PaymentRequest is a PaymentForm that passed schema validation.
type PaymentRequest struct {
	ProviderID       string
	BillNumber       string
	Amount           decimal.Decimal
	SourceAccount    string
	PaymentMethod    string
	CustomerName     string
	MerchantLocation string
	OrderReference   string
}

// Parse applies the form schema and returns the first violation.
func (f PaymentForm) Parse() (PaymentRequest, error) {
	req := PaymentRequest{
		ProviderID:       strings.TrimSpace(f.ProviderID),
		BillNumber:       strings.TrimSpace(f.BillNumber),
		SourceAccount:    strings.TrimSpace(f.SourceAccount),
		PaymentMethod:    strings.TrimSpace(f.PaymentMethod),
		CustomerName:     strings.TrimSpace(f.CustomerName),
		MerchantLocation: strings.TrimSpace(f.MerchantLocation),
		OrderReference:   strings.TrimSpace(f.OrderReference),
	}

	if req.ProviderID == "" {
		return req, invalid("providerId", "Veuillez sélectionner un fournisseur")
	}
	if req.BillNumber == "" {
		return req, invalid("billNumber", "Le numéro de facture est requis")
	}
	if strings.TrimSpace(f.Amount) == "" {
		return req, invalid("amount", "Le montant est requis")
	}
	amount, err := ParseAmount(f.Amount)
	if err != nil {
		return req, invalid("amount", "Le montant doit être un nombre valide")
	}
	if amount.LessThan(MinPaymentAmount) {
		return req, invalid("amount", "Le montant minimum est de 1 000 GNF")
	}
	req.Amount = amount

	if req.SourceAccount == "" {
		return req, invalid("sourceAccount", "Veuillez sélectionner un compte source")
	}
	switch req.PaymentMethod {
	case PaymentMethodAccount, PaymentMethodMobileMoney, PaymentMethodCard:
	case "":
		return req, invalid("paymentMethod", "Veuillez sélectionner un mode de paiement")
	default:
		return req, invalid("paymentMethod", "Mode de paiement non pris en charge")
	}

	return req, nil
}

// PaymentResult is returned to the page after a settled payment. Nothing
// about it is persisted beyond the history entry.
type PaymentResult struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	Total       decimal.Decimal `json:"total"`
	Provider    string          `json:"provider"`
	Type        ProviderType    `json:"type"`
	ProcessedAt time.Time       `json:"processedAt"`
}

// PaymentReference builds "<prefix><YYYYMMDD><nnn>". The suffix only keeps
// collisions unlikely; it is not a key.
func PaymentReference(prefix string, at time.Time, suffix int) string {
	return fmt.Sprintf("%s%s%03d", prefix, at.Format("20060102"), suffix%1000)
}
