package services

import (
	"context"

	"ticketmarket/internal/models"
)

// OwnershipRegistry is the non-fungible ownership registry tracking who
// currently holds each ticket. The marketplace only ever calls it; the
// registry enforces its own pre-transfer hook. Implementations that share
// the marketplace database should join the transaction carried by the
// context so holder changes roll back with the operation.
type OwnershipRegistry interface {
	Mint(ctx context.Context, ticketID int64, owner string) error
	Transfer(ctx context.Context, ticketID int64, from, to string) error
	OwnerOf(ctx context.Context, ticketID int64) (string, error)
	Burn(ctx context.Context, ticketID int64) error
}

// PaymentRail moves monetary units between principals. A failed transfer
// aborts the calling operation.
type PaymentRail interface {
	Transfer(ctx context.Context, from, to string, amount int64) error
}

// Authorizer decides which principals may perform privileged operations
type Authorizer interface {
	IsAdministrator(principal string) bool
}

// EventOperations defines the interface for event registry operations
type EventOperations interface {
	CreateEvent(ctx context.Context, organizer string, req *models.EventCreateRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	GetEventRecords(ctx context.Context, id int64, limit, offset int) ([]*models.Record, error)
}

// TicketOperations defines the interface for ticket ledger and payment
// distribution operations
type TicketOperations interface {
	PurchaseTicket(ctx context.Context, buyer string, eventID, seatNumber, attachedValue int64) (*models.Ticket, error)
	ResellTicket(ctx context.Context, seller string, ticketID, newPrice int64) (*models.Ticket, error)
	PurchaseResoldTicket(ctx context.Context, buyer string, ticketID, attachedValue int64) (*models.Ticket, error)
	ValidateTicket(ctx context.Context, caller string, ticketID int64) (*models.Ticket, error)
	GetTicket(ctx context.Context, id int64) (*models.Ticket, error)
	HolderOf(ctx context.Context, ticketID int64) (string, error)
}

// AccountOperations defines the interface for value-rail account access
type AccountOperations interface {
	Deposit(ctx context.Context, caller, principal string, amount int64) (int64, error)
	Balance(ctx context.Context, principal string) (int64, error)
}
