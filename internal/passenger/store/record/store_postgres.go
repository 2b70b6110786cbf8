package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	"truida/pkg/platform/sentinel"
	txcontext "truida/pkg/platform/tx"
)

// PostgresStore persists passenger records in PostgreSQL. It is pure I/O;
// matching and precedence rules live in the checkpoint service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const passengerColumns = `
	id, passport_number, first_name, last_name, flight_number, gate,
	departure_time, face_hash, fingerprint_hash, face_embedding, captured_at,
	enrolled_at, security_cleared, immigration_cleared, boarding_cleared, guardian_id`

// Put upserts by id. enrolled_at is written once and never updated.
func (s *PostgresStore) Put(ctx context.Context, rec *models.PassengerRecord) error {
	query := `
		INSERT INTO passengers (` + passengerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			passport_number = EXCLUDED.passport_number,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			flight_number = EXCLUDED.flight_number,
			gate = EXCLUDED.gate,
			departure_time = EXCLUDED.departure_time,
			face_hash = EXCLUDED.face_hash,
			fingerprint_hash = EXCLUDED.fingerprint_hash,
			face_embedding = EXCLUDED.face_embedding,
			captured_at = EXCLUDED.captured_at,
			security_cleared = EXCLUDED.security_cleared,
			immigration_cleared = EXCLUDED.immigration_cleared,
			boarding_cleared = EXCLUDED.boarding_cleared,
			guardian_id = EXCLUDED.guardian_id
	`
	var guardian uuid.NullUUID
	if rec.GuardianID != nil {
		guardian = uuid.NullUUID{UUID: uuid.UUID(*rec.GuardianID), Valid: true}
	}
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		rec.PassportNumber,
		rec.FirstName,
		rec.LastName,
		rec.FlightNumber,
		rec.Gate,
		rec.DepartureTime,
		rec.Biometrics.FaceHash,
		rec.Biometrics.FingerprintHash,
		pq.Float64Array(rec.Biometrics.FaceEmbedding),
		rec.Biometrics.CapturedAt,
		rec.EnrolledAt,
		rec.Checkpoints.Security,
		rec.Checkpoints.Immigration,
		rec.Checkpoints.Boarding,
		guardian,
	)
	if err != nil {
		return fmt.Errorf("put passenger: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, passengerID id.PassengerID) (*models.PassengerRecord, error) {
	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE id = $1`
	rec, err := scanPassenger(txcontext.Or(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(passengerID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find passenger by id: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindByPassport(ctx context.Context, passport string) (*models.PassengerRecord, error) {
	query := `SELECT ` + passengerColumns + ` FROM passengers WHERE passport_number = $1 ORDER BY seq LIMIT 1`
	rec, err := scanPassenger(txcontext.Or(ctx, s.db).QueryRowContext(ctx, query, passport))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find passenger by passport: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindByBiometrics(ctx context.Context, faceHash, fingerprintHash string) ([]*models.PassengerRecord, error) {
	query := `
		SELECT ` + passengerColumns + `
		FROM passengers
		WHERE face_hash = $1 AND ($2 = '' OR fingerprint_hash = $2)
		ORDER BY seq
	`
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, query, faceHash, fingerprintHash)
	if err != nil {
		return nil, fmt.Errorf("find passengers by biometrics: %w", err)
	}
	defer rows.Close()
	return scanPassengers(rows)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.PassengerRecord, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, `SELECT `+passengerColumns+` FROM passengers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list passengers: %w", err)
	}
	defer rows.Close()
	return scanPassengers(rows)
}

func (s *PostgresStore) DeleteByID(ctx context.Context, passengerID id.PassengerID) (bool, error) {
	res, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `DELETE FROM passengers WHERE id = $1`, uuid.UUID(passengerID))
	if err != nil {
		return false, fmt.Errorf("delete passenger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete passenger rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	if _, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `DELETE FROM passengers`); err != nil {
		return fmt.Errorf("delete all passengers: %w", err)
	}
	return nil
}

// SweepExpired deletes departed records in one statement, which is atomic with
// respect to concurrent readers.
func (s *PostgresStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `DELETE FROM passengers WHERE departure_time <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("sweep expired passengers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep rows affected: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPassenger(row rowScanner) (*models.PassengerRecord, error) {
	var (
		rec       models.PassengerRecord
		pid       uuid.UUID
		embedding pq.Float64Array
		guardian  uuid.NullUUID
	)
	err := row.Scan(
		&pid,
		&rec.PassportNumber,
		&rec.FirstName,
		&rec.LastName,
		&rec.FlightNumber,
		&rec.Gate,
		&rec.DepartureTime,
		&rec.Biometrics.FaceHash,
		&rec.Biometrics.FingerprintHash,
		&embedding,
		&rec.Biometrics.CapturedAt,
		&rec.EnrolledAt,
		&rec.Checkpoints.Security,
		&rec.Checkpoints.Immigration,
		&rec.Checkpoints.Boarding,
		&guardian,
	)
	if err != nil {
		return nil, err
	}
	rec.ID = id.PassengerID(pid)
	if len(embedding) > 0 {
		rec.Biometrics.FaceEmbedding = []float64(embedding)
	}
	if guardian.Valid {
		g := id.PassengerID(guardian.UUID)
		rec.GuardianID = &g
	}
	return &rec, nil
}

func scanPassengers(rows *sql.Rows) ([]*models.PassengerRecord, error) {
	var out []*models.PassengerRecord
	for rows.Next() {
		rec, err := scanPassenger(rows)
		if err != nil {
			return nil, fmt.Errorf("scan passenger: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passengers: %w", err)
	}
	return out, nil
}
