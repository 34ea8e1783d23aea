package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

type PgInvestments struct {
	db *pgxpool.Pool
}

func NewPgInvestments(db *pgxpool.Pool) *PgInvestments {
	return &PgInvestments{db: db}
}

func (r *PgInvestments) Create(ctx context.Context, inv *domain.Investment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO investments (
			id, user_id, product, product_name, amount, duration_months, rate,
			expected_interest, maturity_amount, source_account, status, created_at, maturity_date
		) VALUES ($1,$2,$3,$4,$5::numeric,$6,$7::numeric,$8::numeric,$9::numeric,$10,$11,$12,$13)`,
		inv.ID, inv.UserID, inv.Product, inv.ProductName, inv.Amount.String(), inv.DurationMonths, inv.Rate.String(),
		inv.ExpectedInterest.String(), inv.MaturityAmount.String(), inv.SourceAccount, string(inv.Status),
		inv.CreatedAt, inv.MaturityDate,
	)
	if err != nil {
		return fmt.Errorf("insert investment %s: %w", inv.ID, err)
	}
	return nil
}

func (r *PgInvestments) ListByUser(ctx context.Context, userID string) ([]domain.Investment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, product, product_name, amount::text, duration_months, rate::text,
		       expected_interest::text, maturity_amount::text, source_account, status, created_at, maturity_date
		FROM investments
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query investments: %w", err)
	}
	defer rows.Close()

	var out []domain.Investment
	for rows.Next() {
		var (
			inv                                  domain.Investment
			status                               string
			amount, rate, interest, maturityAmt string
		)
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Product, &inv.ProductName, &amount, &inv.DurationMonths, &rate,
			&interest, &maturityAmt, &inv.SourceAccount, &status, &inv.CreatedAt, &inv.MaturityDate); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		inv.Status = domain.InvestmentStatus(status)
		for _, f := range []struct {
			dst *decimal.Decimal
			raw string
		}{{&inv.Amount, amount}, {&inv.Rate, rate}, {&inv.ExpectedInterest, interest}, {&inv.MaturityAmount, maturityAmt}} {
			if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
				return nil, fmt.Errorf("parse investment %s: %w", inv.ID, err)
			}
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
