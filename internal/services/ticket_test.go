package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketmarket/internal/models"
)

// failingRail rejects every transfer
type failingRail struct{}

func (failingRail) Transfer(ctx context.Context, from, to string, amount int64) error {
	return models.ErrInsufficientFunds
}

// reentrantRail calls back into a guarded operation from inside the payment
// step, the way a hostile payment collaborator would
type reentrantRail struct {
	svc       *TicketService
	eventID   int64
	innerErr  error
	reentered bool
}

func (r *reentrantRail) Transfer(ctx context.Context, from, to string, amount int64) error {
	if !r.reentered {
		r.reentered = true
		_, r.innerErr = r.svc.PurchaseTicket(context.Background(), "mallory", r.eventID, models.GeneralAdmission, 100)
	}
	return nil
}

func TestPurchaseTicket(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)
	m.fund(t, "alice", 250)

	ticket, err := m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.NoError(t, err)

	assert.Equal(t, event.ID, ticket.EventID)
	assert.Equal(t, int64(100), ticket.OriginalPrice)
	assert.Equal(t, int64(100), ticket.CurrentPrice)
	assert.Equal(t, int64(150), ticket.MaxResalePrice)
	assert.False(t, ticket.IsUsed)
	assert.Equal(t, "alice", ticket.OriginalOwner)

	// ownership minted to the buyer, full value forwarded to the organizer
	holder, err := m.registry.OwnerOf(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", holder)
	assert.Equal(t, int64(100), m.balance(t, "organizer"))
	assert.Equal(t, int64(150), m.balance(t, "alice"))

	updated, err := m.eventService.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.TicketsSold)

	// capacity 1: the second purchase must fail sold out
	m.fund(t, "bob", 100)
	_, err = m.ticketService.PurchaseTicket(context.Background(), "bob", event.ID, models.GeneralAdmission, 100)
	require.ErrorIs(t, err, models.ErrInvalidState)
	require.ErrorIs(t, err, models.ErrSoldOut)
}

func TestPurchaseTicket_Preconditions(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)
	m.fund(t, "alice", 250)

	_, err := m.ticketService.PurchaseTicket(context.Background(), "alice", 999, models.GeneralAdmission, 100)
	assert.ErrorIs(t, err, models.ErrEventNotFound)

	_, err = m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 99)
	assert.ErrorIs(t, err, models.ErrInsufficientValue)

	// nothing happened
	updated, err := m.eventService.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.TicketsSold)
}

func TestPurchaseTicket_PaymentFailureRollsBack(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)

	// alice has no account, so the rail refuses the debit
	_, err := m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.ErrorIs(t, err, models.ErrTransferFailed)

	updated, err := m.eventService.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.TicketsSold, "sold counter must roll back")

	_, err = m.ticketService.GetTicket(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrTicketNotFound, "ticket row must roll back")

	_, err = m.registry.OwnerOf(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrNotFound, "mint must roll back")
}

func TestResellTicket(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)
	m.fund(t, "alice", 100)

	ticket, err := m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.NoError(t, err)

	// above the 1.5x cap
	_, err = m.ticketService.ResellTicket(context.Background(), "alice", ticket.ID, 151)
	require.ErrorIs(t, err, models.ErrValidation)
	require.ErrorIs(t, err, models.ErrPriceCapExceeded)

	unchanged, err := m.ticketService.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), unchanged.CurrentPrice, "failed listing must not change the price")

	// exactly at the cap
	listed, err := m.ticketService.ResellTicket(context.Background(), "alice", ticket.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(150), listed.CurrentPrice)

	// only the current holder may list
	_, err = m.ticketService.ResellTicket(context.Background(), "bob", ticket.ID, 120)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = m.ticketService.ResellTicket(context.Background(), "alice", 999, 120)
	assert.ErrorIs(t, err, models.ErrTicketNotFound)
}

func TestPurchaseResoldTicket(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)
	m.fund(t, "alice", 100)

	ticket, err := m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.NoError(t, err)

	_, err = m.ticketService.ResellTicket(context.Background(), "alice", ticket.ID, 150)
	require.NoError(t, err)

	m.fund(t, "bob", 150)

	// organizer already holds 100 from the primary sale
	_, err = m.ticketService.PurchaseResoldTicket(context.Background(), "bob", ticket.ID, 150)
	require.NoError(t, err)

	// 5% royalty on the attached value: floor(150*500/10000) = 7
	assert.Equal(t, int64(107), m.balance(t, "organizer"))
	assert.Equal(t, int64(143), m.balance(t, "alice"))
	assert.Equal(t, int64(0), m.balance(t, "bob"))

	holder, err := m.registry.OwnerOf(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", holder)

	// original owner is retained even after resale
	resold, err := m.ticketService.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", resold.OriginalOwner)

	records, err := m.eventService.GetEventRecords(context.Background(), event.ID, 50, 0)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, models.RecordTicketTransferred, records[0].Kind)
	assert.Equal(t, "alice", records[0].Actor)
	assert.Equal(t, "bob", records[0].Counterparty)
	assert.Equal(t, int64(150), records[0].Amount)
}

func TestPurchaseResoldTicket_Preconditions(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)
	m.fund(t, "alice", 100)

	ticket, err := m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.NoError(t, err)

	// holders may not buy their own listing
	_, err = m.ticketService.PurchaseResoldTicket(context.Background(), "alice", ticket.ID, 100)
	assert.ErrorIs(t, err, models.ErrSelfPurchase)

	// attached value below the asking price
	m.fund(t, "bob", 100)
	_, err = m.ticketService.PurchaseResoldTicket(context.Background(), "bob", ticket.ID, 99)
	assert.ErrorIs(t, err, models.ErrInsufficientValue)

	_, err = m.ticketService.PurchaseResoldTicket(context.Background(), "bob", 999, 100)
	assert.ErrorIs(t, err, models.ErrTicketNotFound)
}

func TestPurchaseResoldTicket_PaymentFailureRollsBack(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)
	m.fund(t, "alice", 100)

	ticket, err := m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.NoError(t, err)

	// bob can cover the asking price on paper but the rail refuses
	svc := m.withRail(failingRail{})
	_, err = svc.PurchaseResoldTicket(context.Background(), "bob", ticket.ID, 100)
	require.ErrorIs(t, err, models.ErrTransferFailed)

	holder, err := m.registry.OwnerOf(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", holder, "ownership transfer must roll back")
}

func TestValidateTicket(t *testing.T) {
	m := newTestMarket(t)
	event := m.createEvent(t)
	m.fund(t, "alice", 100)

	ticket, err := m.ticketService.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.NoError(t, err)

	// only the event organizer validates
	_, err = m.ticketService.ValidateTicket(context.Background(), "alice", ticket.ID)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	validated, err := m.ticketService.ValidateTicket(context.Background(), "organizer", ticket.ID)
	require.NoError(t, err)
	assert.True(t, validated.IsUsed)

	// usage is one-way
	_, err = m.ticketService.ValidateTicket(context.Background(), "organizer", ticket.ID)
	assert.ErrorIs(t, err, models.ErrTicketUsed)

	// a used ticket can neither be listed nor bought nor moved
	_, err = m.ticketService.ResellTicket(context.Background(), "alice", ticket.ID, 120)
	assert.ErrorIs(t, err, models.ErrTicketUsed)

	m.fund(t, "bob", 150)
	_, err = m.ticketService.PurchaseResoldTicket(context.Background(), "bob", ticket.ID, 150)
	assert.ErrorIs(t, err, models.ErrTicketUsed)

	err = m.registry.Transfer(context.Background(), ticket.ID, "alice", "bob")
	assert.ErrorIs(t, err, models.ErrTicketUsed, "the registry hook must reject moves of used tickets")
}

func TestPurchaseTicket_ReentrancyRejected(t *testing.T) {
	m := newTestMarket(t)
	event, err := m.eventService.CreateEvent(context.Background(), "organizer", &models.EventCreateRequest{
		Name:                "Big Show",
		Date:                testFutureDate(),
		TotalTickets:        10,
		TicketPrice:         100,
		RoyaltyPercent:      500,
		MaxResaleMultiplier: 150,
	})
	require.NoError(t, err)

	rail := &reentrantRail{eventID: event.ID}
	svc := m.withRail(rail)
	rail.svc = svc

	ticket, err := svc.PurchaseTicket(context.Background(), "alice", event.ID, models.GeneralAdmission, 100)
	require.NoError(t, err, "outer purchase completes")
	require.NotNil(t, ticket)

	require.True(t, rail.reentered)
	require.ErrorIs(t, rail.innerErr, models.ErrReentrantCall)

	updated, err := m.eventService.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.TicketsSold, "the reentrant attempt must not consume capacity")
}
