package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ticketmarket/internal/models"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so repository methods can
// run standalone or join a caller-owned transaction via WithTx.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// EventRepository handles event data operations
type EventRepository struct {
	db dbtx
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *EventRepository) WithTx(tx *sql.Tx) *EventRepository {
	return &EventRepository{db: tx}
}

// Create stores a new event with no tickets sold and the active flag set
func (r *EventRepository) Create(organizer string, req *models.EventCreateRequest) (*models.Event, error) {
	query := `
		INSERT INTO events (organizer, name, description, location, date, total_tickets, tickets_sold,
			ticket_price, royalty_percent, max_resale_multiplier, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, 1, ?)`

	now := time.Now().UTC()
	result, err := r.db.Exec(
		query,
		organizer,
		req.Name,
		req.Description,
		req.Location,
		req.Date.UTC(),
		req.TotalTickets,
		req.TicketPrice,
		req.RoyaltyPercent,
		req.MaxResaleMultiplier,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get event id: %w", err)
	}

	return &models.Event{
		ID:                  id,
		Organizer:           organizer,
		Name:                req.Name,
		Description:         req.Description,
		Location:            req.Location,
		Date:                req.Date.UTC(),
		TotalTickets:        req.TotalTickets,
		TicketsSold:         0,
		TicketPrice:         req.TicketPrice,
		RoyaltyPercent:      req.RoyaltyPercent,
		MaxResaleMultiplier: req.MaxResaleMultiplier,
		IsActive:            true,
		CreatedAt:           now,
	}, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int64) (*models.Event, error) {
	query := `
		SELECT id, organizer, name, description, location, date, total_tickets, tickets_sold,
			ticket_price, royalty_percent, max_resale_multiplier, is_active, created_at
		FROM events
		WHERE id = ?`

	event := &models.Event{}
	err := r.db.QueryRow(query, id).Scan(
		&event.ID,
		&event.Organizer,
		&event.Name,
		&event.Description,
		&event.Location,
		&event.Date,
		&event.TotalTickets,
		&event.TicketsSold,
		&event.TicketPrice,
		&event.RoyaltyPercent,
		&event.MaxResaleMultiplier,
		&event.IsActive,
		&event.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// IncrementSold increments the sold counter, refusing to pass capacity
func (r *EventRepository) IncrementSold(id int64) error {
	result, err := r.db.Exec(
		"UPDATE events SET tickets_sold = tickets_sold + 1 WHERE id = ? AND tickets_sold < total_tickets",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment tickets sold: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check increment result: %w", err)
	}
	if affected == 0 {
		return models.ErrSoldOut
	}

	return nil
}
