package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ticketmarket/internal/database"
	"ticketmarket/internal/models"
	"ticketmarket/internal/monitoring"
	"ticketmarket/internal/repositories"
)

// TicketService owns ticket entities and performs the money-moving
// operations. Every mutation runs inside one transaction; the ownership
// registry and payment rail are called through that transaction's context,
// and the whole operation commits or rolls back as a unit. Internal state is
// settled before the rail runs (commit-then-pay), and the reentrancy guard
// turns any callback into a guarded operation into an error.
type TicketService struct {
	db       *sql.DB
	events   *repositories.EventRepository
	tickets  *repositories.TicketRepository
	records  *repositories.RecordRepository
	registry OwnershipRegistry
	rail     PaymentRail
	guard    *ReentrancyGuard
	logger   *slog.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(
	db *sql.DB,
	events *repositories.EventRepository,
	tickets *repositories.TicketRepository,
	records *repositories.RecordRepository,
	registry OwnershipRegistry,
	rail PaymentRail,
	guard *ReentrancyGuard,
	logger *slog.Logger,
) *TicketService {
	return &TicketService{
		db:       db,
		events:   events,
		tickets:  tickets,
		records:  records,
		registry: registry,
		rail:     rail,
		guard:    guard,
		logger:   logger,
	}
}

// PurchaseTicket mints a ticket on primary sale. The attached value must
// cover the ticket price and is forwarded in full to the organizer after all
// internal state is settled. Seat-collision checking for assigned seating is
// delegated off-system.
func (s *TicketService) PurchaseTicket(ctx context.Context, buyer string, eventID, seatNumber, attachedValue int64) (*models.Ticket, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := database.WithTx(ctx, tx)

	event, err := s.events.WithTx(tx).GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, models.ErrEventInactive
	}
	if event.SoldOut() {
		return nil, models.ErrSoldOut
	}
	if attachedValue < event.TicketPrice {
		return nil, models.ErrInsufficientValue
	}

	maxResalePrice := models.ResalePrice(event.TicketPrice, event.MaxResaleMultiplier)
	ticket, err := s.tickets.WithTx(tx).Create(eventID, event.TicketPrice, maxResalePrice, seatNumber, buyer)
	if err != nil {
		return nil, err
	}

	if err := s.registry.Mint(txCtx, ticket.ID, buyer); err != nil {
		return nil, err
	}

	if err := s.events.WithTx(tx).IncrementSold(eventID); err != nil {
		return nil, err
	}

	if err := s.records.WithTx(tx).Append(&models.Record{
		Kind:         models.RecordTicketPurchased,
		EventID:      eventID,
		TicketID:     &ticket.ID,
		Actor:        buyer,
		Counterparty: event.Organizer,
		Amount:       attachedValue,
	}); err != nil {
		return nil, err
	}

	// Internal state is settled; the rail runs last so a failure here can
	// still roll the whole purchase back.
	if err := s.rail.Transfer(txCtx, buyer, event.Organizer, attachedValue); err != nil {
		s.compensateBurn(txCtx, ticket.ID)
		monitoring.RecordTransferFailure("purchase_ticket")
		s.logger.Error("primary sale payment failed",
			"event_id", eventID,
			"buyer", buyer,
			"attached_value", attachedValue,
			"error", err,
		)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.compensateBurn(ctx, ticket.ID)
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	monitoring.RecordPurchase(eventID, attachedValue)
	s.logger.Info("ticket purchased",
		"ticket_id", ticket.ID,
		"event_id", eventID,
		"buyer", buyer,
		"attached_value", attachedValue,
	)

	return ticket, nil
}

// ResellTicket lists a ticket for resale at newPrice. Only the current
// holder may list, the ticket must be unused, and the price may not exceed
// the resale cap fixed at mint.
func (s *TicketService) ResellTicket(ctx context.Context, seller string, ticketID, newPrice int64) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return nil, err
	}

	holder, err := s.registry.OwnerOf(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if holder != seller {
		return nil, models.ErrNotHolder
	}

	if ticket.IsUsed {
		return nil, models.ErrTicketUsed
	}

	if newPrice < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", models.ErrValidation)
	}
	if newPrice > ticket.MaxResalePrice {
		return nil, models.ErrPriceCapExceeded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tickets.WithTx(tx).UpdatePrice(ticketID, newPrice); err != nil {
		return nil, err
	}

	if err := s.records.WithTx(tx).Append(&models.Record{
		Kind:     models.RecordTicketResold,
		EventID:  ticket.EventID,
		TicketID: &ticket.ID,
		Actor:    seller,
		Amount:   newPrice,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit listing: %w", err)
	}

	monitoring.RecordListing()
	s.logger.Info("ticket listed for resale",
		"ticket_id", ticketID,
		"seller", seller,
		"new_price", newPrice,
	)

	ticket.CurrentPrice = newPrice
	return ticket, nil
}

// PurchaseResoldTicket buys a listed ticket from its current holder. The
// attached value is split between organizer royalty and seller proceeds;
// both legs and the ownership transfer succeed or fail together. The split
// is computed over the attached value, not the listed price, so overpayment
// inflates both shares proportionally.
func (s *TicketService) PurchaseResoldTicket(ctx context.Context, buyer string, ticketID, attachedValue int64) (*models.Ticket, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	txCtx := database.WithTx(ctx, tx)

	ticket, err := s.tickets.WithTx(tx).GetByID(ticketID)
	if err != nil {
		return nil, err
	}

	seller, err := s.registry.OwnerOf(txCtx, ticketID)
	if err != nil {
		return nil, err
	}
	if seller == buyer {
		return nil, models.ErrSelfPurchase
	}

	if ticket.IsUsed {
		return nil, models.ErrTicketUsed
	}
	if attachedValue < ticket.CurrentPrice {
		return nil, models.ErrInsufficientValue
	}

	event, err := s.events.WithTx(tx).GetByID(ticket.EventID)
	if err != nil {
		return nil, err
	}

	royalty, sellerAmount := models.RoyaltySplit(attachedValue, event.RoyaltyPercent)

	// Ownership moves first; payment legs follow. Any failed leg undoes the
	// legs before it so the operation stays all-or-nothing even against
	// collaborators outside our transaction.
	if err := s.registry.Transfer(txCtx, ticketID, seller, buyer); err != nil {
		monitoring.RecordTransferFailure("purchase_resold_ticket")
		return nil, err
	}

	if royalty > 0 {
		if err := s.rail.Transfer(txCtx, buyer, event.Organizer, royalty); err != nil {
			s.compensateTransfer(txCtx, ticketID, buyer, seller)
			monitoring.RecordTransferFailure("purchase_resold_ticket")
			s.logger.Error("royalty payment failed",
				"ticket_id", ticketID,
				"buyer", buyer,
				"royalty", royalty,
				"error", err,
			)
			return nil, err
		}
	}

	if err := s.rail.Transfer(txCtx, buyer, seller, sellerAmount); err != nil {
		if royalty > 0 {
			if rerr := s.rail.Transfer(txCtx, event.Organizer, buyer, royalty); rerr != nil {
				s.logger.Error("royalty refund failed during rollback", "ticket_id", ticketID, "error", rerr)
			}
		}
		s.compensateTransfer(txCtx, ticketID, buyer, seller)
		monitoring.RecordTransferFailure("purchase_resold_ticket")
		s.logger.Error("seller payment failed",
			"ticket_id", ticketID,
			"buyer", buyer,
			"seller_amount", sellerAmount,
			"error", err,
		)
		return nil, err
	}

	if err := s.records.WithTx(tx).Append(&models.Record{
		Kind:         models.RecordTicketTransferred,
		EventID:      ticket.EventID,
		TicketID:     &ticket.ID,
		Actor:        seller,
		Counterparty: buyer,
		Amount:       attachedValue,
	}); err != nil {
		s.compensateTransfer(txCtx, ticketID, buyer, seller)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.compensateTransfer(ctx, ticketID, buyer, seller)
		return nil, fmt.Errorf("failed to commit resale: %w", err)
	}

	monitoring.RecordResale(royalty, sellerAmount)
	s.logger.Info("ticket transferred",
		"ticket_id", ticketID,
		"seller", seller,
		"buyer", buyer,
		"attached_value", attachedValue,
		"royalty", royalty,
		"seller_amount", sellerAmount,
	)

	return ticket, nil
}

// ValidateTicket marks a ticket as used. Only the organizer of the ticket's
// event may validate, and the flag never reverses.
func (s *TicketService) ValidateTicket(ctx context.Context, caller string, ticketID int64) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ticket.EventID)
	if err != nil {
		return nil, err
	}
	if caller != event.Organizer {
		return nil, models.ErrNotOrganizer
	}

	if ticket.IsUsed {
		return nil, models.ErrTicketUsed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tickets.WithTx(tx).MarkUsed(ticketID); err != nil {
		return nil, err
	}

	if err := s.records.WithTx(tx).Append(&models.Record{
		Kind:     models.RecordTicketValidated,
		EventID:  ticket.EventID,
		TicketID: &ticket.ID,
		Actor:    caller,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit validation: %w", err)
	}

	monitoring.RecordValidation()
	s.logger.Info("ticket validated", "ticket_id", ticketID, "validator", caller)

	ticket.IsUsed = true
	return ticket, nil
}

// GetTicket retrieves a ticket by ID
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	return s.tickets.GetByID(id)
}

// HolderOf returns the current holder of a ticket
func (s *TicketService) HolderOf(ctx context.Context, ticketID int64) (string, error) {
	return s.registry.OwnerOf(ctx, ticketID)
}

// compensateBurn undoes a mint whose payment never completed. For a registry
// joined to our transaction the rollback covers it anyway; for an external
// registry this is the only undo there is.
func (s *TicketService) compensateBurn(ctx context.Context, ticketID int64) {
	if err := s.registry.Burn(ctx, ticketID); err != nil {
		s.logger.Error("failed to undo mint during rollback", "ticket_id", ticketID, "error", err)
	}
}

// compensateTransfer hands a ticket back to its seller after a failed
// payment leg
func (s *TicketService) compensateTransfer(ctx context.Context, ticketID int64, from, to string) {
	if err := s.registry.Transfer(ctx, ticketID, from, to); err != nil {
		s.logger.Error("failed to undo ownership transfer during rollback", "ticket_id", ticketID, "error", err)
	}
}
