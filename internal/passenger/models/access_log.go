package models

import (
	"time"

	id "truida/pkg/domain"
)

// AccessResult is the binary result recorded for a checkpoint attempt.
type AccessResult string

const (
	AccessGranted AccessResult = "granted"
	AccessDenied  AccessResult = "denied"
)

// AccessLogEntry is an immutable audit line for one checkpoint attempt.
// PassengerID may dangle once the passenger record is deleted.
type AccessLogEntry struct {
	ID          id.AccessLogID
	PassengerID id.PassengerID
	Checkpoint  Checkpoint
	Timestamp   time.Time
	Result      AccessResult
	Outcome     string
	StaffID     string
	Notes       string
}
