package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ticketmarket/internal/database"
	"ticketmarket/internal/models"
)

// TransferHook is invoked before any holder change, including the mint at
// primary purchase. Returning an error rejects the transfer.
type TransferHook func(ctx context.Context, ticketID int64) error

// HolderRegistry is the database-backed ownership registry. It tracks the
// current holder of every ticket and runs the transfer hook before each
// holder mutation, which is how used tickets stay non-transferable no matter
// which pathway attempts the move. When the context carries a transaction
// the registry joins it, so holder changes roll back with the operation
// that requested them.
type HolderRegistry struct {
	db   *sql.DB
	hook TransferHook
}

// NewHolderRegistry creates a holder registry backed by the given database
func NewHolderRegistry(db *sql.DB, hook TransferHook) *HolderRegistry {
	return &HolderRegistry{db: db, hook: hook}
}

func (r *HolderRegistry) conn(ctx context.Context) dbtx {
	if tx, ok := database.TxFrom(ctx); ok {
		return tx
	}
	return r.db
}

// Mint assigns a freshly created ticket to its first owner
func (r *HolderRegistry) Mint(ctx context.Context, ticketID int64, owner string) error {
	if r.hook != nil {
		if err := r.hook(ctx, ticketID); err != nil {
			return err
		}
	}

	_, err := r.conn(ctx).Exec(
		"INSERT INTO ticket_holders (ticket_id, holder, updated_at) VALUES (?, ?, ?)",
		ticketID, owner, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to mint ticket %d: %v", models.ErrTransferFailed, ticketID, err)
	}

	return nil
}

// Transfer reassigns a ticket from its current holder to a new one. The
// from principal must match the current holder.
func (r *HolderRegistry) Transfer(ctx context.Context, ticketID int64, from, to string) error {
	if r.hook != nil {
		if err := r.hook(ctx, ticketID); err != nil {
			return err
		}
	}

	result, err := r.conn(ctx).Exec(
		"UPDATE ticket_holders SET holder = ?, updated_at = ? WHERE ticket_id = ? AND holder = ?",
		to, time.Now().UTC(), ticketID, from,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to transfer ticket %d: %v", models.ErrTransferFailed, ticketID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check transfer result: %v", models.ErrTransferFailed, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: ticket %d is not held by %s", models.ErrTransferFailed, ticketID, from)
	}

	return nil
}

// OwnerOf returns the current holder of a ticket
func (r *HolderRegistry) OwnerOf(ctx context.Context, ticketID int64) (string, error) {
	var holder string
	err := r.conn(ctx).QueryRow(
		"SELECT holder FROM ticket_holders WHERE ticket_id = ?", ticketID,
	).Scan(&holder)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", models.ErrTicketNotFound
		}
		return "", fmt.Errorf("failed to look up holder: %w", err)
	}

	return holder, nil
}

// Burn removes a ticket from the registry. Only the purchase compensation
// path uses this, to undo a mint whose payment never went through.
func (r *HolderRegistry) Burn(ctx context.Context, ticketID int64) error {
	_, err := r.conn(ctx).Exec("DELETE FROM ticket_holders WHERE ticket_id = ?", ticketID)
	if err != nil {
		return fmt.Errorf("failed to burn ticket %d: %w", ticketID, err)
	}
	return nil
}
