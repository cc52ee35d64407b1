package services

import (
	"sync/atomic"

	"ticketmarket/internal/models"
)

// ReentrancyGuard is the process-wide admission lock around the two
// money-moving operations. The payment rail runs arbitrary external code
// mid-operation; if that code calls back into a guarded operation before the
// outer call returns, the inner call fails instead of interleaving.
type ReentrancyGuard struct {
	busy atomic.Bool
}

// NewReentrancyGuard creates a guard in the unset state
func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{}
}

// Enter marks an operation in progress. It fails with ErrReentrantCall if
// another guarded operation is already running.
func (g *ReentrancyGuard) Enter() error {
	if !g.busy.CompareAndSwap(false, true) {
		return models.ErrReentrantCall
	}
	return nil
}

// Exit clears the in-progress marker. Callers must defer it immediately
// after a successful Enter so every exit path releases the guard.
func (g *ReentrancyGuard) Exit() {
	g.busy.Store(false)
}
