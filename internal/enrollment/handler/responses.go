package handler

import (
	"time"

	"truida/internal/passenger/models"
)

// PassengerResponse is the staff view of a record. Digests are echoed so
// support staff can correlate kiosk logs; embeddings are never returned.
type PassengerResponse struct {
	ID              string             `json:"id"`
	FirstName       string             `json:"first_name"`
	LastName        string             `json:"last_name"`
	PassportNumber  string             `json:"passport_number"`
	FlightNumber    string             `json:"flight_number"`
	Gate            string             `json:"gate,omitempty"`
	DepartureTime   time.Time          `json:"departure_time"`
	EnrolledAt      time.Time          `json:"enrolled_at"`
	FaceHash        string             `json:"face_hash"`
	FingerprintHash string             `json:"fingerprint_hash,omitempty"`
	HasEmbedding    bool               `json:"has_embedding"`
	Checkpoints     models.Checkpoints `json:"checkpoints"`
	GuardianID      string             `json:"guardian_id,omitempty"`
}

type PassengerListResponse struct {
	Passengers []*PassengerResponse `json:"passengers"`
	Total      int                  `json:"total"`
}

func FromRecord(rec *models.PassengerRecord) *PassengerResponse {
	resp := &PassengerResponse{
		ID:              rec.ID.String(),
		FirstName:       rec.FirstName,
		LastName:        rec.LastName,
		PassportNumber:  rec.PassportNumber,
		FlightNumber:    rec.FlightNumber,
		Gate:            rec.Gate,
		DepartureTime:   rec.DepartureTime,
		EnrolledAt:      rec.EnrolledAt,
		FaceHash:        rec.Biometrics.FaceHash,
		FingerprintHash: rec.Biometrics.FingerprintHash,
		HasEmbedding:    rec.Biometrics.HasEmbedding(),
		Checkpoints:     rec.Checkpoints,
	}
	if rec.GuardianID != nil {
		resp.GuardianID = rec.GuardianID.String()
	}
	return resp
}

func FromRecords(recs []*models.PassengerRecord) *PassengerListResponse {
	out := make([]*PassengerResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return &PassengerListResponse{Passengers: out, Total: len(out)}
}
