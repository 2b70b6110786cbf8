package service

import (
	"strings"
	"time"

	"truida/internal/biometric"
	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	dErrors "truida/pkg/domain-errors"
)

// IdentityFields are the non-biometric enrollment inputs as received.
type IdentityFields struct {
	FirstName      string
	LastName       string
	PassportNumber string
	FlightNumber   string
	Gate           string
	DepartureTime  string
	GuardianID     string
}

// EnrollRequest enrolls a passenger from precomputed biometrics.
type EnrollRequest struct {
	IdentityFields
	FaceHash        string
	FingerprintHash string
	FaceEmbedding   []float64
}

// EnrollCaptureRequest enrolls a passenger from raw captures.
type EnrollCaptureRequest struct {
	IdentityFields
	FaceCapture        []byte
	FingerprintCapture []byte
}

// parse trims and validates the identity fields.
func (f IdentityFields) parse() (models.Identity, error) {
	required := []struct{ name, value string }{
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
		{"passport_number", f.PassportNumber},
		{"flight_number", f.FlightNumber},
		{"departure_time", f.DepartureTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return models.Identity{}, dErrors.New(dErrors.CodeValidation, r.name+" is required")
		}
	}
	departure, err := time.Parse(time.RFC3339, strings.TrimSpace(f.DepartureTime))
	if err != nil {
		return models.Identity{}, dErrors.New(dErrors.CodeValidation, "departure_time must be RFC3339 with a timezone offset")
	}

	identity := models.Identity{
		PassportNumber: strings.ToUpper(strings.TrimSpace(f.PassportNumber)),
		FirstName:      strings.TrimSpace(f.FirstName),
		LastName:       strings.TrimSpace(f.LastName),
		FlightNumber:   strings.ToUpper(strings.TrimSpace(f.FlightNumber)),
		Gate:           strings.TrimSpace(f.Gate),
		DepartureTime:  departure,
	}
	if g := strings.TrimSpace(f.GuardianID); g != "" {
		guardian, err := id.ParsePassengerID(g)
		if err != nil {
			return models.Identity{}, dErrors.New(dErrors.CodeValidation, "guardian_id must be a passenger id")
		}
		identity.GuardianID = &guardian
	}
	return identity, nil
}

func validateBiometrics(faceHash, fingerprintHash string, embedding []float64) error {
	if faceHash == "" {
		return dErrors.New(dErrors.CodeValidation, "face_hash is required")
	}
	if !biometric.ValidDigest(faceHash) {
		return dErrors.New(dErrors.CodeValidation, "face_hash must be a 64-character hex digest")
	}
	if fingerprintHash != "" && !biometric.ValidDigest(fingerprintHash) {
		return dErrors.New(dErrors.CodeValidation, "fingerprint_hash must be a 64-character hex digest")
	}
	if len(embedding) > 0 && len(embedding) != biometric.EmbeddingSize {
		return dErrors.New(dErrors.CodeValidation, "face_embedding has the wrong length")
	}
	return nil
}

// ClearResult reports what a clear-all removed.
type ClearResult struct {
	ClearedAt time.Time
}
