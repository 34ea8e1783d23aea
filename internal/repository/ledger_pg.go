package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

type PgLedger struct {
	db *pgxpool.Pool
}

func NewPgLedger(db *pgxpool.Pool) *PgLedger {
	return &PgLedger{db: db}
}

func (r *PgLedger) Append(ctx context.Context, e domain.LedgerEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ledger_entries (
			reference, user_id, kind, provider_id, provider_name, bill_number,
			source_account, amount, fee, total, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8::numeric,$9::numeric,$10::numeric,$11,$12)`,
		e.Reference, e.UserID, string(e.Kind), e.ProviderID, e.ProviderName, e.BillNumber,
		e.SourceAccount, e.Amount.String(), e.Fee.String(), e.Total.String(), e.Status, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry %s: %w", e.Reference, err)
	}
	return nil
}

func (r *PgLedger) List(ctx context.Context, f domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	query := `
		SELECT reference, user_id, kind, provider_id, provider_name, bill_number,
		       source_account, amount::text, fee::text, total::text, status, created_at
		FROM ledger_entries
		WHERE user_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC`
	args := []interface{}{f.UserID, string(f.Kind)}
	if f.Limit > 0 {
		query += " LIMIT $3"
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var (
		e                  domain.LedgerEntry
		kind               string
		amount, fee, total string
	)
	if err := row.Scan(&e.Reference, &e.UserID, &kind, &e.ProviderID, &e.ProviderName, &e.BillNumber,
		&e.SourceAccount, &amount, &fee, &total, &e.Status, &e.CreatedAt); err != nil {
		return e, fmt.Errorf("scan ledger entry: %w", err)
	}
	e.Kind = domain.EntryKind(kind)

	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return e, err
	}
	if e.Fee, err = decimal.NewFromString(fee); err != nil {
		return e, err
	}
	if e.Total, err = decimal.NewFromString(total); err != nil {
		return e, err
	}
	return e, nil
}
