package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketmarket/internal/middleware"
	"ticketmarket/internal/services"
)

// AccountHandler handles value-rail account endpoints
type AccountHandler struct {
	accounts services.AccountOperations
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts services.AccountOperations) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// DepositRequest is the body for account funding
type DepositRequest struct {
	Amount int64 `json:"amount"`
}

// Deposit handles POST /api/v1/accounts/:id/deposit
func (h *AccountHandler) Deposit(c *gin.Context) {
	principal := c.Param("id")
	if principal == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	balance, err := h.accounts.Deposit(c.Request.Context(), middleware.Principal(c), principal, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"principal": principal, "balance": balance})
}

// Balance handles GET /api/v1/accounts/:id
func (h *AccountHandler) Balance(c *gin.Context) {
	principal := c.Param("id")
	if principal == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	balance, err := h.accounts.Balance(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"principal": principal, "balance": balance})
}
