package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

// StaticAccounts serves the demo accounts. Balances are never debited.
type StaticAccounts struct {
	accounts []domain.Account
}

func NewStaticAccounts(accounts ...domain.Account) *StaticAccounts {
	if len(accounts) == 0 {
		accounts = []domain.Account{
			{ID: "acc_001", Name: "Compte Courant", Number: "GN01 0001 0000 1234 5678 90", Balance: decimal.NewFromInt(15000000), Currency: domain.Currency},
			{ID: "acc_002", Name: "Compte Épargne", Number: "GN01 0001 0000 9876 5432 10", Balance: decimal.NewFromInt(5250000), Currency: domain.Currency},
		}
	}
	return &StaticAccounts{accounts: accounts}
}

func (r *StaticAccounts) List(_ context.Context) ([]domain.Account, error) {
	return append([]domain.Account(nil), r.accounts...), nil
}

func (r *StaticAccounts) Get(_ context.Context, id string) (domain.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}
