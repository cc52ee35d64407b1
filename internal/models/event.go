package models

import (
	"fmt"
	"strings"
	"time"
)

// Basis used by fixed-point percentage fields: royalties are expressed in
// basis points (10000 = 100%), resale multipliers in hundredths (100 = 1.0x).
const (
	RoyaltyBasis    = 10000
	MultiplierBasis = 100
)

// Event represents an event whose tickets are sold through the marketplace.
// Pricing and capacity parameters are fixed at creation; only TicketsSold
// changes afterwards, and only through ticket purchases.
type Event struct {
	ID                  int64     `json:"id" db:"id"`
	Organizer           string    `json:"organizer" db:"organizer"`
	Name                string    `json:"name" db:"name"`
	Description         string    `json:"description" db:"description"`
	Location            string    `json:"location" db:"location"`
	Date                time.Time `json:"date" db:"date"`
	TotalTickets        int64     `json:"total_tickets" db:"total_tickets"`
	TicketsSold         int64     `json:"tickets_sold" db:"tickets_sold"`
	TicketPrice         int64     `json:"ticket_price" db:"ticket_price"`
	RoyaltyPercent      int64     `json:"royalty_percent" db:"royalty_percent"`
	MaxResaleMultiplier int64     `json:"max_resale_multiplier" db:"max_resale_multiplier"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// SoldOut reports whether the event has no remaining primary capacity.
func (e *Event) SoldOut() bool {
	return e.TicketsSold >= e.TotalTickets
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Location            string    `json:"location"`
	Date                time.Time `json:"date"`
	TotalTickets        int64     `json:"total_tickets"`
	TicketPrice         int64     `json:"ticket_price"`
	RoyaltyPercent      int64     `json:"royalty_percent"`
	MaxResaleMultiplier int64     `json:"max_resale_multiplier"`
}

// Validate validates event creation data. Checks run in a fixed order so the
// first violated rule is the one reported.
func (req *EventCreateRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: event name is required", ErrValidation)
	}

	if !req.Date.After(time.Now()) {
		return fmt.Errorf("%w: event date must be in the future", ErrValidation)
	}

	if req.TotalTickets <= 0 {
		return fmt.Errorf("%w: total tickets must be greater than zero", ErrValidation)
	}

	if req.TicketPrice <= 0 {
		return fmt.Errorf("%w: ticket price must be greater than zero", ErrValidation)
	}

	if req.RoyaltyPercent < 0 || req.RoyaltyPercent > RoyaltyBasis {
		return fmt.Errorf("%w: royalty percent must be between 0 and %d basis points", ErrValidation, RoyaltyBasis)
	}

	if req.MaxResaleMultiplier < MultiplierBasis {
		return fmt.Errorf("%w: max resale multiplier must be at least %d", ErrValidation, MultiplierBasis)
	}

	return nil
}
