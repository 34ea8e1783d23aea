package domain

import "github.com/shopspring/decimal"

type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Number   string          `json:"number"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

func (a Account) Covers(total decimal.Decimal) bool {
	return total.LessThanOrEqual(a.Balance)
}
