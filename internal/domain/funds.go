package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MinProvisionAmount = decimal.NewFromInt(10000)

	guineaMobile = regexp.MustCompile(`^6\d{8}$`)
	otpFormat    = regexp.MustCompile(`^\d{6}$`)
)

// FundsProvisionForm is a "mise à disposition" request: cash made available to
// a beneficiary who withdraws it with a code.
type FundsProvisionForm struct {
	SourceAccount    string
	BeneficiaryName  string
	BeneficiaryPhone string
	Amount           string
	Reason           string
	OTPCode          string
}

type FundsProvisionRequest struct {
	SourceAccount    string
	BeneficiaryName  string
	BeneficiaryPhone string
	Amount           decimal.Decimal
	Reason           string
	OTPCode          string
}

func (f FundsProvisionForm) Parse() (FundsProvisionRequest, error) {
	req := FundsProvisionRequest{
		SourceAccount:    strings.TrimSpace(f.SourceAccount),
		BeneficiaryName:  strings.TrimSpace(f.BeneficiaryName),
		BeneficiaryPhone: strings.ReplaceAll(strings.TrimSpace(f.BeneficiaryPhone), " ", ""),
		Reason:           strings.TrimSpace(f.Reason),
		OTPCode:          strings.TrimSpace(f.OTPCode),
	}

	if req.SourceAccount == "" {
		return req, invalid("sourceAccount", "Veuillez sélectionner un compte source")
	}
	if len([]rune(req.BeneficiaryName)) < 2 {
		return req, invalid("beneficiaryName", "Le nom du bénéficiaire doit contenir au moins 2 caractères")
	}
	if !guineaMobile.MatchString(req.BeneficiaryPhone) {
		return req, invalid("beneficiaryPhone", "Le numéro du bénéficiaire doit être au format 6XXXXXXXX")
	}
	amount, err := ParseAmount(f.Amount)
	if err != nil {
		return req, invalid("amount", "Le montant doit être un nombre valide")
	}
	if amount.LessThan(MinProvisionAmount) {
		return req, invalid("amount", "Le montant minimum est de 10 000 GNF")
	}
	req.Amount = amount
	if !otpFormat.MatchString(req.OTPCode) {
		return req, invalid("otpCode", "Le code OTP doit contenir 6 chiffres")
	}

	return req, nil
}

// LimitPolicy caps how much can be provisioned per calendar day and month.
type LimitPolicy struct {
	Daily   decimal.Decimal
	Monthly decimal.Decimal
}

// Usage is what has been provisioned in the current day and month.
type Usage struct {
	Daily   decimal.Decimal
	Monthly decimal.Decimal
}

type Limits struct {
	DailyLimit       decimal.Decimal `json:"dailyLimit"`
	DailyUsed        decimal.Decimal `json:"dailyUsed"`
	DailyAvailable   decimal.Decimal `json:"dailyAvailable"`
	MonthlyLimit     decimal.Decimal `json:"monthlyLimit"`
	MonthlyUsed      decimal.Decimal `json:"monthlyUsed"`
	MonthlyAvailable decimal.Decimal `json:"monthlyAvailable"`
}

// LimitsFor derives the availability figures; they never go below zero.
func LimitsFor(policy LimitPolicy, usage Usage) Limits {
	return Limits{
		DailyLimit:       policy.Daily,
		DailyUsed:        usage.Daily,
		DailyAvailable:   decimal.Max(policy.Daily.Sub(usage.Daily), decimal.Zero),
		MonthlyLimit:     policy.Monthly,
		MonthlyUsed:      usage.Monthly,
		MonthlyAvailable: decimal.Max(policy.Monthly.Sub(usage.Monthly), decimal.Zero),
	}
}

// CheckLimits reports whether amount fits on top of usage.
func CheckLimits(policy LimitPolicy, usage Usage, amount decimal.Decimal) error {
	limits := LimitsFor(policy, usage)
	if usage.Daily.Add(amount).GreaterThan(policy.Daily) {
		return NewProblem(ErrDailyLimitExceeded,
			"Limite journalière dépassée. Disponible : %s", FormatAmount(limits.DailyAvailable))
	}
	if usage.Monthly.Add(amount).GreaterThan(policy.Monthly) {
		return NewProblem(ErrMonthlyLimitExceeded,
			"Limite mensuelle dépassée. Disponible : %s", FormatAmount(limits.MonthlyAvailable))
	}
	return nil
}

type FundsProvisionResult struct {
	Success          bool            `json:"success"`
	Message          string          `json:"message"`
	Reference        string          `json:"reference"`
	WithdrawalCode   string          `json:"withdrawalCode"`
	Amount           decimal.Decimal `json:"amount"`
	BeneficiaryName  string          `json:"beneficiaryName"`
	BeneficiaryPhone string          `json:"beneficiaryPhone"`
	CreatedAt        time.Time       `json:"createdAt"`
	Limits           Limits          `json:"limits"`
}

// ProvisionReference builds "MAD<YYYYMMDD><nnnn>".
func ProvisionReference(at time.Time, suffix int) string {
	return fmt.Sprintf("MAD%s%04d", at.Format("20060102"), suffix%10000)
}
