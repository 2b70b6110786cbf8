package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"truida/internal/passenger/models"
	id "truida/pkg/domain"
)

func candidate(embedding []float64) *models.PassengerRecord {
	return &models.PassengerRecord{ID: id.NewPassengerID(), Biometrics: models.Biometrics{FaceEmbedding: embedding}}
}

func TestSelectBestMatch(t *testing.T) {
	presented := unitEmbedding(1)

	t.Run("highest similarity wins", func(t *testing.T) {
		low, high := candidate(unitEmbedding(0.3)), candidate(unitEmbedding(0.9))
		best, score := SelectBestMatch([]*models.PassengerRecord{low, high}, presented)
		assert.Same(t, high, best)
		assert.InDelta(t, 0.9, score, 1e-9)
	})

	t.Run("first seen wins ties", func(t *testing.T) {
		a, b := candidate(unitEmbedding(0.5)), candidate(unitEmbedding(0.5))
		best, _ := SelectBestMatch([]*models.PassengerRecord{a, b}, presented)
		assert.Same(t, a, best)
	})

	t.Run("records without embedding lose to any embedded record", func(t *testing.T) {
		bare, negative := candidate(nil), candidate(unitEmbedding(-0.5))
		best, score := SelectBestMatch([]*models.PassengerRecord{bare, negative}, presented)
		assert.Same(t, negative, best)
		assert.InDelta(t, -0.5, score, 1e-9)
	})

	t.Run("no embedded candidate selects the first with score 0", func(t *testing.T) {
		a, b := candidate(nil), candidate(nil)
		best, score := SelectBestMatch([]*models.PassengerRecord{a, b}, presented)
		assert.Same(t, a, best)
		assert.Zero(t, score)
	})

	t.Run("empty input", func(t *testing.T) {
		best, score := SelectBestMatch(nil, presented)
		assert.Nil(t, best)
		assert.Zero(t, score)
	})
}

func TestEvaluateCheckpoint(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := func(cp models.Checkpoints, departure time.Time) *models.PassengerRecord {
		return &models.PassengerRecord{Checkpoints: cp, DepartureTime: departure}
	}
	future, past := now.Add(time.Hour), now.Add(-time.Hour)

	tests := []struct {
		name        string
		record      *models.PassengerRecord
		checkpoint  models.Checkpoint
		wantOutcome Outcome
		wantMissing models.Checkpoint
	}{
		{"fresh security", rec(models.Checkpoints{}, future), models.CheckpointSecurity, OutcomeGranted, ""},
		{"immigration without security", rec(models.Checkpoints{}, future), models.CheckpointImmigration, OutcomePrerequisiteMissing, models.CheckpointSecurity},
		{"boarding without immigration", rec(models.Checkpoints{Security: true}, future), models.CheckpointBoarding, OutcomePrerequisiteMissing, models.CheckpointImmigration},
		{"boarding after both", rec(models.Checkpoints{Security: true, Immigration: true}, future), models.CheckpointBoarding, OutcomeGranted, ""},
		{"security again", rec(models.Checkpoints{Security: true}, future), models.CheckpointSecurity, OutcomeAlreadyCleared, ""},
		{"departed beats cleared", rec(models.Checkpoints{Security: true}, past), models.CheckpointSecurity, OutcomeFlightDeparted, ""},
		{"departed beats precedence", rec(models.Checkpoints{}, past), models.CheckpointBoarding, OutcomeFlightDeparted, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateCheckpoint(tt.record, tt.checkpoint, now)
			assert.Equal(t, tt.wantOutcome, d.Outcome)
			assert.Equal(t, tt.wantMissing, d.Missing)
		})
	}
}

func TestOutcomeResult(t *testing.T) {
	assert.Equal(t, models.AccessGranted, OutcomeGranted.Result())
	assert.Equal(t, models.AccessGranted, OutcomeAlreadyCleared.Result())
	for _, o := range []Outcome{OutcomeNoMatch, OutcomeFlightDeparted, OutcomePrerequisiteMissing} {
		assert.False(t, o.Granted())
		assert.Equal(t, models.AccessDenied, o.Result())
		assert.NotEmpty(t, o.Message())
	}
}

func TestSimilarityNote(t *testing.T) {
	assert.Equal(t, "similarity=93.4%", SimilarityNote(0.934))
	assert.Equal(t, "similarity=0.0%", SimilarityNote(0))
}
