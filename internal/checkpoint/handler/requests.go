package handler

import (
	"strings"

	dErrors "truida/pkg/domain-errors"
)

// VerifyRequest is the HTTP request body for POST /v1/checkpoints/{checkpoint}/verify.
// A kiosk sends either precomputed hashes or raw captures, not both.
type VerifyRequest struct {
	FaceHash           string    `json:"face_hash,omitempty"`
	FingerprintHash    string    `json:"fingerprint_hash,omitempty"`
	Embedding          []float64 `json:"embedding,omitempty"`
	FaceCapture        []byte    `json:"face_capture,omitempty"`
	FingerprintCapture []byte    `json:"fingerprint_capture,omitempty"`
}

// Validate implements httputil.Validatable.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FaceHash = strings.TrimSpace(r.FaceHash)
	r.FingerprintHash = strings.TrimSpace(r.FingerprintHash)

	hasHashes := r.FaceHash != "" || len(r.Embedding) > 0
	hasCaptures := len(r.FaceCapture) > 0 || len(r.FingerprintCapture) > 0
	switch {
	case hasHashes && hasCaptures:
		return dErrors.New(dErrors.CodeValidation, "send either hashes or captures, not both")
	case hasCaptures && len(r.FaceCapture) == 0:
		return dErrors.New(dErrors.CodeValidation, "face_capture is required")
	case !hasCaptures && r.FaceHash == "":
		return dErrors.New(dErrors.CodeValidation, "face_hash is required")
	}
	return nil
}

func (r *VerifyRequest) usesCaptures() bool {
	return len(r.FaceCapture) > 0
}
