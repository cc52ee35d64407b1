package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ticketmarket/internal/models"
	"ticketmarket/internal/repositories"
)

// EventService owns event entities and their pricing and capacity
// parameters. Parameters are fixed at creation; only the sold counter moves
// afterwards, and only through the ticket service.
type EventService struct {
	db      *sql.DB
	events  *repositories.EventRepository
	records *repositories.RecordRepository
	auth    Authorizer
	logger  *slog.Logger
}

// NewEventService creates a new event service
func NewEventService(db *sql.DB, events *repositories.EventRepository, records *repositories.RecordRepository, auth Authorizer, logger *slog.Logger) *EventService {
	return &EventService{
		db:      db,
		events:  events,
		records: records,
		auth:    auth,
		logger:  logger,
	}
}

// CreateEvent creates a new event. Only administrator principals may create
// events; the caller becomes the event's organizer.
func (s *EventService) CreateEvent(ctx context.Context, organizer string, req *models.EventCreateRequest) (*models.Event, error) {
	if !s.auth.IsAdministrator(organizer) {
		return nil, models.ErrNotAdministrator
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	event, err := s.events.WithTx(tx).Create(organizer, req)
	if err != nil {
		return nil, err
	}

	if err := s.records.WithTx(tx).Append(&models.Record{
		Kind:    models.RecordEventCreated,
		EventID: event.ID,
		Actor:   organizer,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event creation: %w", err)
	}

	s.logger.Info("event created",
		"event_id", event.ID,
		"organizer", organizer,
		"total_tickets", event.TotalTickets,
		"ticket_price", event.TicketPrice,
	)

	return event, nil
}

// GetEvent returns an immutable snapshot of an event
func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.events.GetByID(id)
}

// GetEventRecords returns the records emitted for an event, newest first
func (s *EventService) GetEventRecords(ctx context.Context, id int64, limit, offset int) ([]*models.Record, error) {
	if _, err := s.events.GetByID(id); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.records.ListByEvent(id, limit, offset)
}
