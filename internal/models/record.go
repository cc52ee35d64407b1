package models

import "time"

// RecordKind identifies the kind of marketplace record emitted by an operation.
type RecordKind string

const (
	RecordEventCreated      RecordKind = "event_created"
	RecordTicketPurchased   RecordKind = "ticket_purchased"
	RecordTicketResold      RecordKind = "ticket_resold"
	RecordTicketTransferred RecordKind = "ticket_transferred"
	RecordTicketValidated   RecordKind = "ticket_validated"
)

// Record is an append-only log entry emitted by a successful marketplace
// operation. Records are written in the same transaction as the state change
// they describe, so the log never mentions an operation that rolled back.
type Record struct {
	ID           int64      `json:"id" db:"id"`
	Kind         RecordKind `json:"kind" db:"kind"`
	EventID      int64      `json:"event_id" db:"event_id"`
	TicketID     *int64     `json:"ticket_id,omitempty" db:"ticket_id"`
	Actor        string     `json:"actor" db:"actor"`
	Counterparty string     `json:"counterparty,omitempty" db:"counterparty"`
	Amount       int64      `json:"amount" db:"amount"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
