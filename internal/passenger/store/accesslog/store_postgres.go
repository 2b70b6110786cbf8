package accesslog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	txcontext "truida/pkg/platform/tx"
)

// PostgresStore appends access log entries to the access_logs table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry models.AccessLogEntry) (models.AccessLogEntry, error) {
	entry.ID = id.NewAccessLogID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	query := `
		INSERT INTO access_logs (id, passenger_id, checkpoint, occurred_at, result, outcome, staff_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		uuid.UUID(entry.PassengerID),
		string(entry.Checkpoint),
		entry.Timestamp,
		string(entry.Result),
		entry.Outcome,
		entry.StaffID,
		entry.Notes,
	)
	if err != nil {
		return models.AccessLogEntry{}, fmt.Errorf("append access log: %w", err)
	}
	return entry, nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int, since *time.Time) ([]models.AccessLogEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	var sinceArg sql.NullTime
	if since != nil {
		sinceArg = sql.NullTime{Time: *since, Valid: true}
	}
	query := `
		SELECT id, passenger_id, checkpoint, occurred_at, result, outcome, staff_id, notes
		FROM access_logs
		WHERE $1::timestamptz IS NULL OR occurred_at >= $1
		ORDER BY occurred_at DESC, seq DESC
		LIMIT $2
	`
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, query, sinceArg, limit)
	if err != nil {
		return nil, fmt.Errorf("query access logs: %w", err)
	}
	defer rows.Close()

	var out []models.AccessLogEntry
	for rows.Next() {
		var (
			entry       models.AccessLogEntry
			entryID     uuid.UUID
			passengerID uuid.UUID
			checkpoint  string
			result      string
		)
		if err := rows.Scan(&entryID, &passengerID, &checkpoint, &entry.Timestamp, &result, &entry.Outcome, &entry.StaffID, &entry.Notes); err != nil {
			return nil, fmt.Errorf("scan access log: %w", err)
		}
		entry.ID = id.AccessLogID(entryID)
		entry.PassengerID = id.PassengerID(passengerID)
		entry.Checkpoint = models.Checkpoint(checkpoint)
		entry.Result = models.AccessResult(result)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access logs: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ClearAll(ctx context.Context) error {
	if _, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `DELETE FROM access_logs`); err != nil {
		return fmt.Errorf("clear access logs: %w", err)
	}
	return nil
}
