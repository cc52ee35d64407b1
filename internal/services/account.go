package services

import (
	"context"

	"ticketmarket/internal/models"
	"ticketmarket/internal/repositories"
)

// AccountService exposes the value rail's account bookkeeping: funding an
// account (administrator only) and reading balances.
type AccountService struct {
	ledger *repositories.AccountLedger
	auth   Authorizer
}

// NewAccountService creates a new account service
func NewAccountService(ledger *repositories.AccountLedger, auth Authorizer) *AccountService {
	return &AccountService{ledger: ledger, auth: auth}
}

// Deposit credits a principal's account. Restricted to administrators since
// it mints value into the rail.
func (s *AccountService) Deposit(ctx context.Context, caller, principal string, amount int64) (int64, error) {
	if !s.auth.IsAdministrator(caller) {
		return 0, models.ErrNotAdministrator
	}
	return s.ledger.Deposit(ctx, principal, amount)
}

// Balance returns the current balance for a principal
func (s *AccountService) Balance(ctx context.Context, principal string) (int64, error) {
	return s.ledger.Balance(ctx, principal)
}
