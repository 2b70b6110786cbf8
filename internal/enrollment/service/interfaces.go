package service

import (
	"context"

	"truida/internal/biometric"
	"truida/internal/passenger/models"
	id "truida/pkg/domain"
)

// RecordStore is the passenger record store as enrollment uses it.
type RecordStore interface {
	Put(ctx context.Context, rec *models.PassengerRecord) error
	FindByID(ctx context.Context, passengerID id.PassengerID) (*models.PassengerRecord, error)
	FindByPassport(ctx context.Context, passport string) (*models.PassengerRecord, error)
	List(ctx context.Context) ([]*models.PassengerRecord, error)
	DeleteByID(ctx context.Context, passengerID id.PassengerID) (bool, error)
	DeleteAll(ctx context.Context) error
}

// AccessLogClearer empties the access log during clear-all.
type AccessLogClearer interface {
	ClearAll(ctx context.Context) error
}

// Locker provides the same exclusion the checkpoint engine uses, so a delete
// never interleaves with an in-flight grant.
type Locker interface {
	LockRecord(ctx context.Context, key string) (release func(), err error)
	LockAll(ctx context.Context) (release func(), err error)
}

// TxRunner runs fn in one transaction when the stores are transactional.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Extractor digests raw captures for EnrollCapture.
type Extractor interface {
	Extract(ctx context.Context, payload []byte) (biometric.Sample, error)
	Digest(payload []byte) (string, error)
}
