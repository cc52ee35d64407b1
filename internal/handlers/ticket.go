package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketmarket/internal/middleware"
	"ticketmarket/internal/models"
	"ticketmarket/internal/services"
)

// TicketHandler handles ticket ledger and payment endpoints
type TicketHandler struct {
	tickets services.TicketOperations
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets services.TicketOperations) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// PurchaseRequest is the body for primary ticket purchases
type PurchaseRequest struct {
	SeatNumber    int64 `json:"seat_number"`
	AttachedValue int64 `json:"attached_value"`
}

// ResellRequest is the body for resale listings
type ResellRequest struct {
	NewPrice int64 `json:"new_price"`
}

// ResoldPurchaseRequest is the body for secondary-market purchases
type ResoldPurchaseRequest struct {
	AttachedValue int64 `json:"attached_value"`
}

// Purchase handles POST /api/v1/events/:id/tickets
func (h *TicketHandler) Purchase(c *gin.Context) {
	eventID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SeatNumber < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seat number"})
		return
	}

	ticket, err := h.tickets.PurchaseTicket(c.Request.Context(), middleware.Principal(c), eventID, req.SeatNumber, req.AttachedValue)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// Get handles GET /api/v1/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.tickets.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	holder, err := h.tickets.HolderOf(c.Request.Context(), id)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket, "holder": holder})
}

// Resell handles POST /api/v1/tickets/:id/resell
func (h *TicketHandler) Resell(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ResellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ticket, err := h.tickets.ResellTicket(c.Request.Context(), middleware.Principal(c), id, req.NewPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// PurchaseResold handles POST /api/v1/tickets/:id/purchase
func (h *TicketHandler) PurchaseResold(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ResoldPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ticket, err := h.tickets.PurchaseResoldTicket(c.Request.Context(), middleware.Principal(c), id, req.AttachedValue)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Validate handles POST /api/v1/tickets/:id/validate
func (h *TicketHandler) Validate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.tickets.ValidateTicket(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
