package service

import (
	"context"
	"time"

	"truida/internal/passenger/models"
	id "truida/pkg/domain"
)

// RecordStore is the part of the passenger record store the engine reads and writes.
type RecordStore interface {
	FindByBiometrics(ctx context.Context, faceHash, fingerprintHash string) ([]*models.PassengerRecord, error)
	FindByID(ctx context.Context, passengerID id.PassengerID) (*models.PassengerRecord, error)
	Put(ctx context.Context, rec *models.PassengerRecord) error
}

// AccessLogStore appends one entry per decided verification.
type AccessLogStore interface {
	Append(ctx context.Context, entry models.AccessLogEntry) (models.AccessLogEntry, error)
}

// Locker serializes read-decide-write per passenger id.
type Locker interface {
	LockRecord(ctx context.Context, key string) (release func(), err error)
}

// Sweeper removes departed records once a verification has been decided.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// AccessEventPublisher mirrors access log entries to downstream consumers.
// It must not block.
type AccessEventPublisher interface {
	PublishAccess(ctx context.Context, entry models.AccessLogEntry)
}

// TxRunner runs fn in one transaction so a grant and its access log entry
// commit together.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
