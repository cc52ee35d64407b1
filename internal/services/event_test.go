package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketmarket/internal/models"
)

func TestCreateEvent(t *testing.T) {
	m := newTestMarket(t)

	req := &models.EventCreateRequest{
		Name:                "Summer Concert",
		Description:         "Open air concert",
		Location:            "City Park",
		Date:                testFutureDate(),
		TotalTickets:        500,
		TicketPrice:         2500,
		RoyaltyPercent:      750,
		MaxResaleMultiplier: 200,
	}

	event, err := m.eventService.CreateEvent(context.Background(), "organizer", req)
	require.NoError(t, err)

	assert.Equal(t, "organizer", event.Organizer)
	assert.Equal(t, int64(0), event.TicketsSold)
	assert.True(t, event.IsActive)

	// the stored snapshot matches
	stored, err := m.eventService.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, stored.ID)
	assert.Equal(t, int64(2500), stored.TicketPrice)
	assert.Equal(t, int64(750), stored.RoyaltyPercent)
	assert.Equal(t, int64(200), stored.MaxResaleMultiplier)

	// creation emitted a record
	records, err := m.eventService.GetEventRecords(context.Background(), event.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.RecordEventCreated, records[0].Kind)
	assert.Equal(t, "organizer", records[0].Actor)
}

func TestCreateEvent_RequiresAdministrator(t *testing.T) {
	m := newTestMarket(t)

	_, err := m.eventService.CreateEvent(context.Background(), "mallory", &models.EventCreateRequest{
		Name:                "Fake Event",
		Date:                testFutureDate(),
		TotalTickets:        10,
		TicketPrice:         100,
		RoyaltyPercent:      0,
		MaxResaleMultiplier: 100,
	})
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestCreateEvent_RejectsInvalidRequest(t *testing.T) {
	m := newTestMarket(t)

	_, err := m.eventService.CreateEvent(context.Background(), "organizer", &models.EventCreateRequest{
		Name:                "Past Event",
		Date:                time.Now().Add(-time.Hour),
		TotalTickets:        10,
		TicketPrice:         100,
		RoyaltyPercent:      0,
		MaxResaleMultiplier: 100,
	})
	require.ErrorIs(t, err, models.ErrValidation)

	// nothing was stored
	_, err = m.eventService.GetEvent(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestGetEvent_NotFound(t *testing.T) {
	m := newTestMarket(t)

	_, err := m.eventService.GetEvent(context.Background(), 42)
	require.ErrorIs(t, err, models.ErrNotFound)
}
