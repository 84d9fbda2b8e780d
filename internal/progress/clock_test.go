package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hard75/internal/store"
)

func testClock(t *testing.T, at time.Time) (*Clock, *time.Time) {
	t.Helper()
	now := at
	return NewClock(store.NewMemory(), func() time.Time { return now }), &now
}

func TestClockDefaults(t *testing.T) {
	ctx := context.Background()
	clock, _ := testClock(t, time.Now())

	day, err := clock.CurrentDay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, day)

	started, err := clock.Started(ctx, 1)
	require.NoError(t, err)
	assert.False(t, started)
}

func TestResetThenUpdateYieldsDayOne(t *testing.T) {
	ctx := context.Background()
	clock, _ := testClock(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))

	require.NoError(t, clock.Reset(ctx, 1))

	started, err := clock.Started(ctx, 1)
	require.NoError(t, err)
	assert.True(t, started)

	day, err := clock.UpdateFromTime(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, day)
}

func TestUpdateFromTimeAdvancesDaily(t *testing.T) {
	ctx := context.Background()
	clock, now := testClock(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))

	require.NoError(t, clock.Reset(ctx, 1))

	*now = now.Add(3*24*time.Hour + time.Hour)
	day, err := clock.UpdateFromTime(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, day)

	persisted, err := clock.CurrentDay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, persisted)
}

// A start date in the future (clock skew, corrupted state) must clamp to
// day 1, never persist a non-positive day.
func TestUpdateFromTimeClampsToOne(t *testing.T) {
	ctx := context.Background()
	clock, now := testClock(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	require.NoError(t, clock.SetStartDate(ctx, 1, now.Add(48*time.Hour)))
	day, err := clock.UpdateFromTime(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, day)
}

func TestResetClearsChallengeState(t *testing.T) {
	ctx := context.Background()
	clock, now := testClock(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))

	require.NoError(t, clock.SetCurrentDay(ctx, 1, 40))
	require.NoError(t, clock.SetStartDate(ctx, 1, now.Add(-40*24*time.Hour)))

	require.NoError(t, clock.Reset(ctx, 1))
	day, err := clock.CurrentDay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, day)

	start, err := clock.StartDate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), start.UnixMilli())
}

func TestNotificationsFlagIsIndependentOfReset(t *testing.T) {
	ctx := context.Background()
	clock, _ := testClock(t, time.Now())

	require.NoError(t, clock.SetNotificationsEnabled(ctx, 1, true))
	require.NoError(t, clock.Reset(ctx, 1))

	enabled, err := clock.NotificationsEnabled(ctx, 1)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestClockStateIsPerUser(t *testing.T) {
	ctx := context.Background()
	clock, _ := testClock(t, time.Now())

	require.NoError(t, clock.SetCurrentDay(ctx, 1, 12))
	day, err := clock.CurrentDay(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, day)
}
