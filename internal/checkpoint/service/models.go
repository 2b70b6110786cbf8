package service

import (
	"strings"

	"truida/internal/biometric"
	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	dErrors "truida/pkg/domain-errors"
)

const maxHashLength = 128

// VerifyRequest is one presented biometric sample at one checkpoint.
type VerifyRequest struct {
	Checkpoint      models.Checkpoint
	FaceHash        string
	FingerprintHash string
	Embedding       []float64
}

// Validate rejects malformed input before it reaches the stores. The
// embedding is optional; when present it must have the deployment length.
// Hashes are folded to lower case, the form enrollment stores. Any other
// whitespace-free value is accepted and simply matches nothing, so a kiosk
// with a foreign digest gets NO_MATCH rather than a request error.
func (r *VerifyRequest) Validate() error {
	if !r.Checkpoint.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown checkpoint")
	}
	r.FaceHash = strings.ToLower(strings.TrimSpace(r.FaceHash))
	if r.FaceHash == "" {
		return dErrors.New(dErrors.CodeValidation, "face hash is required")
	}
	if len(r.FaceHash) > maxHashLength || strings.ContainsAny(r.FaceHash, " \t\r\n") {
		return dErrors.New(dErrors.CodeValidation, "face hash is malformed")
	}
	r.FingerprintHash = strings.ToLower(strings.TrimSpace(r.FingerprintHash))
	if len(r.FingerprintHash) > maxHashLength || strings.ContainsAny(r.FingerprintHash, " \t\r\n") {
		return dErrors.New(dErrors.CodeValidation, "fingerprint hash is malformed")
	}
	if len(r.Embedding) > 0 && len(r.Embedding) != biometric.EmbeddingSize {
		return dErrors.New(dErrors.CodeValidation, "embedding has the wrong length")
	}
	return nil
}

// VerificationResult is what Verify returns for every outcome. Passenger is a
// snapshot taken after the decision and is nil for NO_MATCH.
type VerificationResult struct {
	Outcome           Outcome
	Checkpoint        models.Checkpoint
	Passenger         *models.PassengerRecord
	Similarity        float64
	MissingCheckpoint models.Checkpoint
	AccessLogID       *id.AccessLogID
}

func (r *VerificationResult) Granted() bool {
	return r.Outcome.Granted()
}
