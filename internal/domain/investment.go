package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentActive  InvestmentStatus = "active"
	InvestmentMatured InvestmentStatus = "matured"
)

// InvestmentProduct is a placement the bank offers. Rate is annual, e.g. 0.065.
type InvestmentProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	MinAmount   decimal.Decimal `json:"minAmount"`
	Durations   []int           `json:"durations"`
}

func (p InvestmentProduct) AllowsDuration(months int) bool {
	for _, d := range p.Durations {
		if d == months {
			return true
		}
	}
	return false
}

type InvestmentForm struct {
	Product        string
	Amount         string
	DurationMonths string
	SourceAccount  string
	OTPCode        string
}

type InvestmentRequest struct {
	Product        string
	Amount         decimal.Decimal
	DurationMonths int
	SourceAccount  string
	OTPCode        string
}

func (f InvestmentForm) Parse() (InvestmentRequest, error) {
	req := InvestmentRequest{
		Product:       strings.TrimSpace(f.Product),
		SourceAccount: strings.TrimSpace(f.SourceAccount),
		OTPCode:       strings.TrimSpace(f.OTPCode),
	}

	if req.Product == "" {
		return req, invalid("product", "Veuillez choisir un produit")
	}
	amount, err := ParseAmount(f.Amount)
	if err != nil || !amount.IsPositive() {
		return req, invalid("amount", "Le montant doit être un nombre positif")
	}
	req.Amount = amount

	months, err := strconv.Atoi(strings.TrimSpace(f.DurationMonths))
	if err != nil || months <= 0 {
		return req, invalid("durationMonths", "Veuillez choisir une durée")
	}
	req.DurationMonths = months

	if req.SourceAccount == "" {
		return req, invalid("sourceAccount", "Veuillez sélectionner un compte source")
	}
	if !otpFormat.MatchString(req.OTPCode) {
		return req, invalid("otpCode", "Le code OTP doit contenir 6 chiffres")
	}
	return req, nil
}

type Investment struct {
	ID               string           `json:"id"`
	UserID           string           `json:"-"`
	Product          string           `json:"product"`
	ProductName      string           `json:"productName"`
	Amount           decimal.Decimal  `json:"amount"`
	DurationMonths   int              `json:"durationMonths"`
	Rate             decimal.Decimal  `json:"rate"`
	ExpectedInterest decimal.Decimal  `json:"expectedInterest"`
	MaturityAmount   decimal.Decimal  `json:"maturityAmount"`
	SourceAccount    string           `json:"sourceAccount"`
	Status           InvestmentStatus `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	MaturityDate     time.Time        `json:"maturityDate"`
}

// SimpleInterest is amount × rate × months / 12, rounded to the franc.
func SimpleInterest(amount, rate decimal.Decimal, months int) decimal.Decimal {
	return amount.Mul(rate).Mul(decimal.NewFromInt(int64(months))).Div(decimal.NewFromInt(12)).Round(0)
}
