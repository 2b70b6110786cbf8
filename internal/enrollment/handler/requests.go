package handler

import (
	"strings"

	"truida/internal/enrollment/service"
	dErrors "truida/pkg/domain-errors"
)

// EnrollRequest is the HTTP request body for POST /v1/passengers. Biometrics
// arrive either as precomputed digests or as raw captures.
type EnrollRequest struct {
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	PassportNumber     string    `json:"passport_number"`
	FlightNumber       string    `json:"flight_number"`
	Gate               string    `json:"gate,omitempty"`
	DepartureTime      string    `json:"departure_time"`
	GuardianID         string    `json:"guardian_id,omitempty"`
	FaceHash           string    `json:"face_hash,omitempty"`
	FingerprintHash    string    `json:"fingerprint_hash,omitempty"`
	FaceEmbedding      []float64 `json:"face_embedding,omitempty"`
	FaceCapture        []byte    `json:"face_capture,omitempty"`
	FingerprintCapture []byte    `json:"fingerprint_capture,omitempty"`
}

// Validate implements httputil.Validatable. Field rules live in the service;
// this only checks the request shape.
func (r *EnrollRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FaceHash = strings.ToLower(strings.TrimSpace(r.FaceHash))
	r.FingerprintHash = strings.ToLower(strings.TrimSpace(r.FingerprintHash))

	hasDigests := r.FaceHash != "" || r.FingerprintHash != "" || len(r.FaceEmbedding) > 0
	hasCaptures := len(r.FaceCapture) > 0 || len(r.FingerprintCapture) > 0
	if hasDigests && hasCaptures {
		return dErrors.New(dErrors.CodeValidation, "send either hashes or captures, not both")
	}
	if hasCaptures && len(r.FaceCapture) == 0 {
		return dErrors.New(dErrors.CodeValidation, "face_capture is required")
	}
	return nil
}

func (r *EnrollRequest) usesCaptures() bool {
	return len(r.FaceCapture) > 0
}

func (r *EnrollRequest) identity() service.IdentityFields {
	return service.IdentityFields{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		PassportNumber: r.PassportNumber,
		FlightNumber:   r.FlightNumber,
		Gate:           r.Gate,
		DepartureTime:  r.DepartureTime,
		GuardianID:     r.GuardianID,
	}
}
