package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jo-hoe/hoasite/internal/backend/finance"
)

func nullCents(c finance.Cents, valid bool) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(c), Valid: valid}
}

func (s *SQLiteDatabase) ReplaceTransactions(ctx context.Context, txs []finance.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(id, seq, post_date, description, amount_cents, balance_cents, vendor, auto_vendor, category, auto_category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, t := range txs {
		id := t.ID
		if id == "" {
			if id, err = newID(); err != nil {
				return err
			}
		}
		if _, err := stmt.ExecContext(ctx,
			id, i, t.PostDate.Format(finance.DateLayout), t.Description,
			nullCents(t.Amount, t.AmountValid), nullCents(t.Balance, t.HasBalance),
			t.Vendor, t.AutoVendor, t.Category, t.AutoCategory,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListTransactions returns the checking history in import order.
func (s *SQLiteDatabase) ListTransactions(ctx context.Context) ([]finance.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, post_date, description, amount_cents, balance_cents,
		vendor, auto_vendor, category, auto_category FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []finance.Transaction
	for rows.Next() {
		var (
			t       finance.Transaction
			date    string
			amount  sql.NullInt64
			balance sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &date, &t.Description, &amount, &balance,
			&t.Vendor, &t.AutoVendor, &t.Category, &t.AutoCategory); err != nil {
			return nil, err
		}
		if t.PostDate, err = finance.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %q: %w", t.ID, err)
		}
		t.Amount, t.AmountValid = finance.Cents(amount.Int64), amount.Valid
		t.Balance, t.HasBalance = finance.Cents(balance.Int64), balance.Valid
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteDatabase) ReplaceSavings(ctx context.Context, points []finance.SavingsPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM savings_balances"); err != nil {
		return fmt.Errorf("failed to clear savings: %w", err)
	}
	for i, p := range points {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO savings_balances (seq, post_date, balance_cents) VALUES (?, ?, ?)",
			i, p.PostDate.Format(finance.DateLayout), int64(p.Balance),
		); err != nil {
			return fmt.Errorf("failed to insert savings point %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteDatabase) ListSavings(ctx context.Context) ([]finance.SavingsPoint, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT post_date, balance_cents FROM savings_balances ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []finance.SavingsPoint
	for rows.Next() {
		var (
			date    string
			balance int64
		)
		if err := rows.Scan(&date, &balance); err != nil {
			return nil, err
		}
		d, err := finance.ParseDate(date)
		if err != nil {
			return nil, err
		}
		out = append(out, finance.SavingsPoint{PostDate: d, Balance: finance.Cents(balance)})
	}
	return out, rows.Err()
}
