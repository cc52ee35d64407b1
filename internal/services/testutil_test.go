package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ticketmarket/internal/database"
	"ticketmarket/internal/models"
	"ticketmarket/internal/repositories"
)

// testMarket wires a full marketplace over an in-memory database, with the
// real storage-backed registry and rail.
type testMarket struct {
	db       *database.DB
	events   *repositories.EventRepository
	tickets  *repositories.TicketRepository
	records  *repositories.RecordRepository
	registry *repositories.HolderRegistry
	ledger   *repositories.AccountLedger
	guard    *ReentrancyGuard

	eventService  *EventService
	ticketService *TicketService
}

func newTestMarket(t *testing.T) *testMarket {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.NewConnection(database.Config{
		Path: "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())

	m := &testMarket{
		db:      db,
		events:  repositories.NewEventRepository(db.DB),
		tickets: repositories.NewTicketRepository(db.DB),
		records: repositories.NewRecordRepository(db.DB),
		ledger:  repositories.NewAccountLedger(db.DB),
		guard:   NewReentrancyGuard(),
	}

	transferGuard := NewTransferGuard(m.tickets)
	m.registry = repositories.NewHolderRegistry(db.DB, transferGuard.Check)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := NewStaticAuthorizer([]string{"organizer"})
	m.eventService = NewEventService(db.DB, m.events, m.records, auth, logger)
	m.ticketService = NewTicketService(db.DB, m.events, m.tickets, m.records, m.registry, m.ledger, m.guard, logger)

	return m
}

// withRail returns a ticket service sharing the market's state but paying
// over the given rail
func (m *testMarket) withRail(rail PaymentRail) *TicketService {
	return NewTicketService(m.db.DB, m.events, m.tickets, m.records, m.registry, rail, m.guard, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// createEvent creates the standard test event: capacity 1, price 100,
// 5% royalty, 1.5x resale cap.
func (m *testMarket) createEvent(t *testing.T) *models.Event {
	t.Helper()

	event, err := m.eventService.CreateEvent(context.Background(), "organizer", &models.EventCreateRequest{
		Name:                "Test Concert",
		Description:         "A test event",
		Location:            "Test Hall",
		Date:                time.Now().Add(24 * time.Hour),
		TotalTickets:        1,
		TicketPrice:         100,
		RoyaltyPercent:      500,
		MaxResaleMultiplier: 150,
	})
	require.NoError(t, err)
	return event
}

func testFutureDate() time.Time {
	return time.Now().Add(24 * time.Hour)
}

func (m *testMarket) fund(t *testing.T, principal string, amount int64) {
	t.Helper()
	_, err := m.ledger.Deposit(context.Background(), principal, amount)
	require.NoError(t, err)
}

func (m *testMarket) balance(t *testing.T, principal string) int64 {
	t.Helper()
	balance, err := m.ledger.Balance(context.Background(), principal)
	require.NoError(t, err)
	return balance
}
