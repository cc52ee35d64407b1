package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ticketmarket/internal/database"
	"ticketmarket/internal/models"
)

// AccountLedger is the database-backed value-transfer rail. Balances are
// whole integer currency units; a debit that would overdraw an account fails
// the transfer. When the context carries a transaction the ledger joins it,
// otherwise each transfer runs in its own transaction.
type AccountLedger struct {
	db *sql.DB
}

// NewAccountLedger creates an account ledger backed by the given database
func NewAccountLedger(db *sql.DB) *AccountLedger {
	return &AccountLedger{db: db}
}

// Transfer moves amount from one principal to another. A zero amount is a
// no-op.
func (l *AccountLedger) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount", models.ErrTransferFailed)
	}
	if amount == 0 {
		return nil
	}

	if tx, ok := database.TxFrom(ctx); ok {
		return l.transfer(tx, from, to, amount)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transfer: %v", models.ErrTransferFailed, err)
	}
	defer tx.Rollback()

	if err := l.transfer(tx, from, to, amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transfer: %v", models.ErrTransferFailed, err)
	}

	return nil
}

func (l *AccountLedger) transfer(q dbtx, from, to string, amount int64) error {
	result, err := q.Exec(
		"UPDATE accounts SET balance = balance - ?, updated_at = ? WHERE principal = ? AND balance >= ?",
		amount, time.Now().UTC(), from, amount,
	)
	if err != nil {
		return fmt.Errorf("%w: debit failed: %v", models.ErrTransferFailed, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check debit result: %v", models.ErrTransferFailed, err)
	}
	if affected == 0 {
		return models.ErrInsufficientFunds
	}

	if _, err := q.Exec(`
		INSERT INTO accounts (principal, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(principal) DO UPDATE SET balance = balance + excluded.balance, updated_at = excluded.updated_at`,
		to, amount, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("%w: credit failed: %v", models.ErrTransferFailed, err)
	}

	return nil
}

// Deposit credits a principal's account and returns the new balance
func (l *AccountLedger) Deposit(ctx context.Context, principal string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: deposit amount must be positive", models.ErrValidation)
	}

	if _, err := l.db.ExecContext(ctx, `
		INSERT INTO accounts (principal, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(principal) DO UPDATE SET balance = balance + excluded.balance, updated_at = excluded.updated_at`,
		principal, amount, time.Now().UTC(),
	); err != nil {
		return 0, fmt.Errorf("failed to deposit: %w", err)
	}

	return l.Balance(ctx, principal)
}

// Balance returns the current balance for a principal
func (l *AccountLedger) Balance(ctx context.Context, principal string) (int64, error) {
	var balance int64
	err := l.db.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE principal = ?", principal,
	).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, models.ErrAccountNotFound
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}
