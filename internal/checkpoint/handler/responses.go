package handler

import (
	"time"

	"truida/internal/checkpoint/service"
	"truida/internal/passenger/models"
)

// VerifyResponse is returned for every outcome, including denials.
type VerifyResponse struct {
	Outcome           string            `json:"outcome"`
	Granted           bool              `json:"granted"`
	Message           string            `json:"message"`
	Checkpoint        string            `json:"checkpoint"`
	Similarity        *float64          `json:"similarity,omitempty"`
	MissingCheckpoint string            `json:"missing_checkpoint,omitempty"`
	AccessLogID       string            `json:"access_log_id,omitempty"`
	Passenger         *PassengerSummary `json:"passenger,omitempty"`
}

// PassengerSummary is what a gate officer sees after a match.
type PassengerSummary struct {
	ID            string             `json:"id"`
	FullName      string             `json:"full_name"`
	FlightNumber  string             `json:"flight_number"`
	Gate          string             `json:"gate,omitempty"`
	DepartureTime time.Time          `json:"departure_time"`
	Checkpoints   models.Checkpoints `json:"checkpoints"`
}

func FromResult(r *service.VerificationResult) *VerifyResponse {
	resp := &VerifyResponse{
		Outcome:           r.Outcome.String(),
		Granted:           r.Granted(),
		Message:           r.Outcome.Message(),
		Checkpoint:        r.Checkpoint.String(),
		MissingCheckpoint: r.MissingCheckpoint.String(),
	}
	if r.AccessLogID != nil {
		resp.AccessLogID = r.AccessLogID.String()
	}
	if p := r.Passenger; p != nil {
		similarity := r.Similarity
		resp.Similarity = &similarity
		resp.Passenger = &PassengerSummary{
			ID:            p.ID.String(),
			FullName:      p.FullName(),
			FlightNumber:  p.FlightNumber,
			Gate:          p.Gate,
			DepartureTime: p.DepartureTime,
			Checkpoints:   p.Checkpoints,
		}
	}
	return resp
}
