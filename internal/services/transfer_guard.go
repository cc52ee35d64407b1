package services

import (
	"context"
	"errors"

	"ticketmarket/internal/database"
	"ticketmarket/internal/models"
	"ticketmarket/internal/repositories"
)

// TransferGuard is the pre-transfer hook handed to the ownership registry.
// It rejects any holder change for a used ticket, so "used tickets never
// move" holds regardless of which pathway attempts the transfer.
type TransferGuard struct {
	tickets *repositories.TicketRepository
}

// NewTransferGuard creates a transfer guard over the given ticket storage
func NewTransferGuard(tickets *repositories.TicketRepository) *TransferGuard {
	return &TransferGuard{tickets: tickets}
}

// Check is a repositories.TransferHook. Tickets the ledger does not know yet
// are allowed through: that is the mint during a primary purchase, before
// the ticket row's transaction commits.
func (g *TransferGuard) Check(ctx context.Context, ticketID int64) error {
	tickets := g.tickets
	if tx, ok := database.TxFrom(ctx); ok {
		tickets = tickets.WithTx(tx)
	}

	ticket, err := tickets.GetByID(ticketID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	if ticket.IsUsed {
		return models.ErrTicketUsed
	}

	return nil
}
