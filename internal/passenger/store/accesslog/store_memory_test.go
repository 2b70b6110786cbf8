package accesslog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truida/internal/passenger/models"
	id "truida/pkg/domain"
)

func entryAt(ts time.Time, notes string) models.AccessLogEntry {
	return models.AccessLogEntry{
		PassengerID: id.NewPassengerID(),
		Checkpoint:  models.CheckpointSecurity,
		Timestamp:   ts,
		Result:      models.AccessGranted,
		Outcome:     "GRANTED",
		StaffID:     "system",
		Notes:       notes,
	}
}

func TestAppendAssignsFreshIDs(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	in := entryAt(base, "a")
	in.ID = id.NewAccessLogID()
	first, err := store.Append(ctx, in)
	require.NoError(t, err)
	second, err := store.Append(ctx, entryAt(base, "b"))
	require.NoError(t, err)

	assert.NotEqual(t, in.ID, first.ID, "caller-provided id is replaced")
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.ID.IsNil())
}

func TestAppendStampsMissingTimestamp(t *testing.T) {
	store := New()
	got, err := store.Append(context.Background(), entryAt(time.Time{}, "x"))
	require.NoError(t, err)
	assert.False(t, got.Timestamp.IsZero())
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	store := New()
	// appended out of order; the log orders by timestamp
	for _, e := range []models.AccessLogEntry{
		entryAt(base.Add(2*time.Minute), "third"),
		entryAt(base, "first"),
		entryAt(base.Add(time.Minute), "second"),
		entryAt(base.Add(time.Minute), "second-later"),
	} {
		_, err := store.Append(ctx, e)
		require.NoError(t, err)
	}

	notes := func(entries []models.AccessLogEntry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Notes)
		}
		return out
	}

	t.Run("newest first bounded by limit", func(t *testing.T) {
		got, err := store.Recent(ctx, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second-later", "second"}, notes(got))
	})

	t.Run("limit larger than the log returns everything", func(t *testing.T) {
		got, err := store.Recent(ctx, 100, nil)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("since filters older entries", func(t *testing.T) {
		since := base.Add(time.Minute)
		got, err := store.Recent(ctx, 10, &since)
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second-later", "second"}, notes(got))
	})

	t.Run("non-positive limit returns nothing", func(t *testing.T) {
		for _, limit := range []int{0, -1} {
			got, err := store.Recent(ctx, limit, nil)
			require.NoError(t, err)
			assert.Empty(t, got)
		}
	})
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	store := New()
	_, err := store.Append(ctx, entryAt(time.Now(), "x"))
	require.NoError(t, err)

	require.NoError(t, store.ClearAll(ctx))
	got, err := store.Recent(ctx, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
