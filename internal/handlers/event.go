package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ticketmarket/internal/middleware"
	"ticketmarket/internal/models"
	"ticketmarket/internal/services"
)

// EventHandler handles event registry endpoints
type EventHandler struct {
	events services.EventOperations
}

// NewEventHandler creates a new event handler
func NewEventHandler(events services.EventOperations) *EventHandler {
	return &EventHandler{events: events}
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req models.EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), middleware.Principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Records handles GET /api/v1/events/:id/records
func (h *EventHandler) Records(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.events.GetEventRecords(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
