package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ticketmarket/internal/models"
)

// TicketRepository handles ticket data operations
type TicketRepository struct {
	db dbtx
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *TicketRepository) WithTx(tx *sql.Tx) *TicketRepository {
	return &TicketRepository{db: tx}
}

// Create mints a new ticket record. The asking price starts at the original
// price and the resale cap is fixed for the life of the ticket.
func (r *TicketRepository) Create(eventID, price, maxResalePrice, seatNumber int64, originalOwner string) (*models.Ticket, error) {
	query := `
		INSERT INTO tickets (event_id, original_price, current_price, max_resale_price, seat_number, is_used, original_owner, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`

	now := time.Now().UTC()
	result, err := r.db.Exec(query, eventID, price, price, maxResalePrice, seatNumber, originalOwner, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket id: %w", err)
	}

	return &models.Ticket{
		ID:             id,
		EventID:        eventID,
		OriginalPrice:  price,
		CurrentPrice:   price,
		MaxResalePrice: maxResalePrice,
		SeatNumber:     seatNumber,
		IsUsed:         false,
		OriginalOwner:  originalOwner,
		CreatedAt:      now,
	}, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(id int64) (*models.Ticket, error) {
	query := `
		SELECT id, event_id, original_price, current_price, max_resale_price, seat_number, is_used, original_owner, created_at
		FROM tickets
		WHERE id = ?`

	ticket := &models.Ticket{}
	err := r.db.QueryRow(query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.OriginalPrice,
		&ticket.CurrentPrice,
		&ticket.MaxResalePrice,
		&ticket.SeatNumber,
		&ticket.IsUsed,
		&ticket.OriginalOwner,
		&ticket.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// UpdatePrice sets the current asking price for resale
func (r *TicketRepository) UpdatePrice(id, price int64) error {
	result, err := r.db.Exec("UPDATE tickets SET current_price = ? WHERE id = ?", price, id)
	if err != nil {
		return fmt.Errorf("failed to update ticket price: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check price update result: %w", err)
	}
	if affected == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}

// MarkUsed flips the usage flag. The flag is one-way: marking an already
// used ticket fails rather than silently succeeding.
func (r *TicketRepository) MarkUsed(id int64) error {
	result, err := r.db.Exec("UPDATE tickets SET is_used = 1 WHERE id = ? AND is_used = 0", id)
	if err != nil {
		return fmt.Errorf("failed to mark ticket used: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check usage update result: %w", err)
	}
	if affected == 0 {
		return models.ErrTicketUsed
	}

	return nil
}
