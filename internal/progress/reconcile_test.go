package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hard75/internal/models"
	"hard75/internal/store"
)

func fullDay(userID, dayNumber int) models.DayRecord {
	url := "file:///photos/day.jpg"
	return models.DayRecord{
		DayNumber:          dayNumber,
		UserID:             userID,
		Diet:               true,
		Reading:            true,
		NoAlcohol:          true,
		WaterIntake:        4.0,
		ProgressPictureURL: &url,
		IndoorWorkout:      &models.Workout{Duration: "00:45:00"},
		OutdoorWorkout:     &models.Workout{Duration: "00:50:00"},
	}
}

func testReconciler(t *testing.T, at time.Time) (*Reconciler, *Clock, *store.Memory, *time.Time) {
	t.Helper()
	now := at
	nowFn := func() time.Time { return now }
	mem := store.NewMemory()
	clock := NewClock(mem, nowFn)
	return NewReconciler(mem, clock, nowFn, nil), clock, mem, &now
}

func TestReconcileWithNoRecords(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	recon, clock, _, _ := testReconciler(t, at)

	day, err := recon.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, day)

	start, err := clock.StartDate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), start.UnixMilli())
}

func TestReconcileResumesAfterLastCompletedDay(t *testing.T) {
	ctx := context.Background()
	recon, clock, mem, _ := testReconciler(t, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))

	for day := 1; day <= 5; day++ {
		require.NoError(t, mem.Upsert(ctx, fullDay(1, day)))
	}
	incomplete := fullDay(1, 6)
	incomplete.Reading = false
	require.NoError(t, mem.Upsert(ctx, incomplete))

	day, err := recon.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, day)

	persisted, err := clock.CurrentDay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, persisted)
}

// The cached completed flag is exactly what may be stale after an import;
// reconciliation must recompute from the task fields.
func TestReconcileIgnoresCachedCompletedFlag(t *testing.T) {
	ctx := context.Background()
	recon, _, mem, _ := testReconciler(t, time.Now())

	lying := fullDay(1, 10)
	lying.ProgressPictureURL = nil
	lying.Completed = true
	require.NoError(t, mem.Upsert(ctx, lying))

	day, err := recon.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, day)
}

// After reconciliation, zero-elapsed-time advancement must reproduce the
// baseline day: the back-dated start date and the day counter agree.
func TestReconcileRoundTripsWithUpdateFromTime(t *testing.T) {
	ctx := context.Background()
	recon, clock, mem, _ := testReconciler(t, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))

	for day := 1; day <= 17; day++ {
		require.NoError(t, mem.Upsert(ctx, fullDay(1, day)))
	}

	baseline, err := recon.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 18, baseline)

	day, err := clock.UpdateFromTime(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, baseline, day)
}

func TestReconcileThenAdvanceOneDay(t *testing.T) {
	ctx := context.Background()
	recon, clock, mem, now := testReconciler(t, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))

	require.NoError(t, mem.Upsert(ctx, fullDay(1, 1)))
	baseline, err := recon.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, baseline)

	*now = now.Add(24 * time.Hour)
	day, err := clock.UpdateFromTime(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, day)
}

// Reinstall scenario: days 1-3 fully done, day 4 missing only the progress
// picture. The user resumes on the first incomplete day, not past it.
func TestReconcileAfterReinstall(t *testing.T) {
	ctx := context.Background()
	recon, _, mem, _ := testReconciler(t, time.Now())

	for day := 1; day <= 3; day++ {
		require.NoError(t, mem.Upsert(ctx, fullDay(1, day)))
	}
	almost := fullDay(1, 4)
	almost.ProgressPictureURL = nil
	require.NoError(t, mem.Upsert(ctx, almost))

	day, err := recon.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, day)
}

func TestAllCompletedBefore(t *testing.T) {
	ctx := context.Background()
	recon, _, mem, _ := testReconciler(t, time.Now())

	require.NoError(t, mem.Upsert(ctx, fullDay(1, 1)))
	require.NoError(t, mem.Upsert(ctx, fullDay(1, 2)))

	ok, err := recon.AllCompletedBefore(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	// Day 3 has no record at all; missing counts as incomplete.
	ok, err = recon.AllCompletedBefore(ctx, 1, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWeightLoss(t *testing.T) {
	assert.InDelta(t, 3.5, WeightLoss(80.0, 76.5), 1e-9)
	assert.Zero(t, WeightLoss(80.0, 80.0))
	assert.Zero(t, WeightLoss(80.0, 82.0))
}
