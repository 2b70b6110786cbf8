package models

import (
	"slices"
	"time"

	id "truida/pkg/domain"
	dErrors "truida/pkg/domain-errors"
)

// Biometrics holds the exact-match digests and the optional fuzzy-match
// embedding captured at enrollment.
type Biometrics struct {
	FaceHash        string    `json:"face_hash"`
	FingerprintHash string    `json:"fingerprint_hash,omitempty"`
	FaceEmbedding   []float64 `json:"face_embedding,omitempty"`
	CapturedAt      time.Time `json:"captured_at"`
}

// HasEmbedding reports whether fuzzy ranking can use this record.
func (b Biometrics) HasEmbedding() bool { return len(b.FaceEmbedding) > 0 }

// PassengerRecord is an enrolled traveller. Only Checkpoints changes after
// enrollment.
type PassengerRecord struct {
	ID             id.PassengerID
	PassportNumber string
	FirstName      string
	LastName       string
	FlightNumber   string
	Gate           string
	DepartureTime  time.Time
	Biometrics     Biometrics
	EnrolledAt     time.Time
	Checkpoints    Checkpoints
	GuardianID     *id.PassengerID
}

// NewPassengerRecord enforces the enrollment invariants. embeddingSize is the
// deployment's fixed embedding length; an absent embedding is allowed.
func NewPassengerRecord(
	passengerID id.PassengerID,
	identity Identity,
	bio Biometrics,
	embeddingSize int,
	enrolledAt time.Time,
) (*PassengerRecord, error) {
	if passengerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "passenger id required")
	}
	if bio.FaceHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "face hash required")
	}
	if bio.HasEmbedding() && len(bio.FaceEmbedding) != embeddingSize {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "face embedding has the wrong length")
	}
	if identity.DepartureTime.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "departure time required")
	}
	if bio.CapturedAt.IsZero() {
		bio.CapturedAt = enrolledAt
	}
	bio.FaceEmbedding = slices.Clone(bio.FaceEmbedding)

	return &PassengerRecord{
		ID:             passengerID,
		PassportNumber: identity.PassportNumber,
		FirstName:      identity.FirstName,
		LastName:       identity.LastName,
		FlightNumber:   identity.FlightNumber,
		Gate:           identity.Gate,
		DepartureTime:  identity.DepartureTime,
		Biometrics:     bio,
		EnrolledAt:     enrolledAt,
		GuardianID:     identity.GuardianID,
	}, nil
}

// Identity is the validated, non-biometric part of an enrollment.
type Identity struct {
	PassportNumber string
	FirstName      string
	LastName       string
	FlightNumber   string
	Gate           string
	DepartureTime  time.Time
	GuardianID     *id.PassengerID
}

// HasDeparted reports whether the flight left at or before now.
func (p *PassengerRecord) HasDeparted(now time.Time) bool {
	return !p.DepartureTime.After(now)
}

// FullName is used in listings and audit lines.
func (p *PassengerRecord) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Clone returns a deep copy so stores never share mutable slices with callers.
func (p *PassengerRecord) Clone() *PassengerRecord {
	if p == nil {
		return nil
	}
	c := *p
	c.Biometrics.FaceEmbedding = slices.Clone(p.Biometrics.FaceEmbedding)
	if p.GuardianID != nil {
		g := *p.GuardianID
		c.GuardianID = &g
	}
	return &c
}
