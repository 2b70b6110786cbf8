// Package domain holds typed identifiers shared across modules.
//
// Passenger and access-log ids are random (v4) UUIDs. Typed wrappers keep a log
// entry id from being passed where a passenger id is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "truida/pkg/domain-errors"
)

type PassengerID uuid.UUID

type AccessLogID uuid.UUID

// NewPassengerID returns a fresh random passenger id.
func NewPassengerID() PassengerID { return PassengerID(uuid.New()) }

// NewAccessLogID returns a fresh random access log id.
func NewAccessLogID() AccessLogID { return AccessLogID(uuid.New()) }

// ParsePassengerID parses external input at trust boundaries.
// Errors: CodeInvalidInput for empty, malformed, or nil UUIDs.
func ParsePassengerID(s string) (PassengerID, error) {
	u, err := parseUUID(s, "passenger id")
	return PassengerID(u), err
}

// ParseAccessLogID parses external input at trust boundaries.
func ParseAccessLogID(s string) (AccessLogID, error) {
	u, err := parseUUID(s, "access log id")
	return AccessLogID(u), err
}

func parseUUID(s, name string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, name+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+name)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, name+" cannot be nil")
	}
	return u, nil
}

func (id PassengerID) String() string { return uuid.UUID(id).String() }
func (id PassengerID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id AccessLogID) String() string { return uuid.UUID(id).String() }
func (id AccessLogID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
