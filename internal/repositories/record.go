package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ticketmarket/internal/models"
)

// RecordRepository handles the append-only marketplace record log
type RecordRepository struct {
	db dbtx
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *RecordRepository) WithTx(tx *sql.Tx) *RecordRepository {
	return &RecordRepository{db: tx}
}

// Append writes a record entry, filling in its ID and timestamp
func (r *RecordRepository) Append(rec *models.Record) error {
	query := `
		INSERT INTO records (kind, event_id, ticket_id, actor, counterparty, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	result, err := r.db.Exec(query, rec.Kind, rec.EventID, rec.TicketID, rec.Actor, rec.Counterparty, rec.Amount, now)
	if err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get record id: %w", err)
	}

	rec.ID = id
	rec.CreatedAt = now
	return nil
}

// ListByEvent retrieves records for an event, newest first
func (r *RecordRepository) ListByEvent(eventID int64, limit, offset int) ([]*models.Record, error) {
	query := `
		SELECT id, kind, event_id, ticket_id, actor, counterparty, amount, created_at
		FROM records
		WHERE event_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, eventID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		rec := &models.Record{}
		if err := rows.Scan(
			&rec.ID,
			&rec.Kind,
			&rec.EventID,
			&rec.TicketID,
			&rec.Actor,
			&rec.Counterparty,
			&rec.Amount,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
