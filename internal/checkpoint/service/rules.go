package service

import (
	"fmt"
	"time"

	"truida/internal/biometric"
	"truida/internal/passenger/models"
)

// SelectBestMatch ranks exact-hash candidates by cosine similarity to the
// presented embedding. Only candidates with a stored embedding compete; the
// first one seen wins ties. With no embedded candidate the first candidate is
// returned with score 0. Returns nil for an empty slice.
// This is pure domain logic - no I/O, no side effects.
func SelectBestMatch(candidates []*models.PassengerRecord, presented []float64) (*models.PassengerRecord, float64) {
	var (
		best      *models.PassengerRecord
		bestScore float64
	)
	for _, c := range candidates {
		if !c.Biometrics.HasEmbedding() {
			continue
		}
		score := biometric.Cosine(c.Biometrics.FaceEmbedding, presented)
		if best == nil || score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == nil && len(candidates) > 0 {
		return candidates[0], 0
	}
	return best, bestScore
}

// Decision is the result of evaluating one record at one checkpoint.
type Decision struct {
	Outcome Outcome
	Missing models.Checkpoint
}

// EvaluateCheckpoint applies the gate rules to a matched record.
// Rule priority (fail-fast):
//  1. Departed flight - an expired record never passes
//  2. Precedence - every earlier gate must be cleared
//  3. Re-entry - an already cleared gate is granted without mutation
//  4. Grant
func EvaluateCheckpoint(rec *models.PassengerRecord, checkpoint models.Checkpoint, now time.Time) Decision {
	if rec.HasDeparted(now) {
		return Decision{Outcome: OutcomeFlightDeparted}
	}
	if missing, ok := rec.Checkpoints.MissingFor(checkpoint); ok {
		return Decision{Outcome: OutcomePrerequisiteMissing, Missing: missing}
	}
	if rec.Checkpoints.Cleared(checkpoint) {
		return Decision{Outcome: OutcomeAlreadyCleared}
	}
	return Decision{Outcome: OutcomeGranted}
}

// SimilarityNote renders a score as the access log note, e.g. "similarity=93.4%".
func SimilarityNote(score float64) string {
	return fmt.Sprintf("similarity=%.1f%%", score*100)
}
