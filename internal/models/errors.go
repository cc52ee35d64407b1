package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the marketplace wraps exactly one of
// these, so callers can branch with errors.Is without matching message text.
var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state")
	ErrTransferFailed = errors.New("transfer failed")
	ErrReentrantCall  = errors.New("reentrant call")
)

// Specific errors used throughout the application
var (
	ErrEventNotFound     = fmt.Errorf("event %w", ErrNotFound)
	ErrTicketNotFound    = fmt.Errorf("ticket %w", ErrNotFound)
	ErrAccountNotFound   = fmt.Errorf("account %w", ErrNotFound)
	ErrEventInactive     = fmt.Errorf("%w: event is not active", ErrInvalidState)
	ErrSoldOut           = fmt.Errorf("%w: event is sold out", ErrInvalidState)
	ErrTicketUsed        = fmt.Errorf("%w: ticket has already been used", ErrInvalidState)
	ErrSelfPurchase      = fmt.Errorf("%w: buyer already holds this ticket", ErrInvalidState)
	ErrInsufficientValue = fmt.Errorf("%w: attached value below asking price", ErrInvalidState)
	ErrPriceCapExceeded  = fmt.Errorf("%w: price exceeds resale cap", ErrValidation)
	ErrNotAdministrator  = fmt.Errorf("%w: administrator role required", ErrUnauthorized)
	ErrNotOrganizer      = fmt.Errorf("%w: caller is not the event organizer", ErrUnauthorized)
	ErrNotHolder         = fmt.Errorf("%w: caller is not the current holder", ErrUnauthorized)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrTransferFailed)
)
