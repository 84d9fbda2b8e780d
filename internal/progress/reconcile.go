package progress

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hard75/internal/completion"
	"hard75/internal/store"
)

// Reconciler recomputes the clock from completion history after a bulk
// import of remote day records. Devices can disagree on wall-clock time and
// a fresh install has no stored start date, so the authoritative signal for
// "what day are we on" is the completed days themselves, not whatever start
// date was previously persisted.
type Reconciler struct {
	days  store.DayStore
	clock *Clock
	now   func() time.Time
	log   *zap.Logger
}

// NewReconciler creates a reconciler. A nil now defaults to time.Now.
func NewReconciler(days store.DayStore, clock *Clock, now func() time.Time, log *zap.Logger) *Reconciler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{days: days, clock: clock, now: now, log: log}
}

// Reconcile sets the current day to one past the last fully completed day
// and back-dates the start date so that time-based advancement reproduces
// the same day. Completion is recomputed from the task fields for every
// record; the cached flag is exactly what may be stale after an import.
// With no records at all this is equivalent to a fresh reset: day 1,
// start date now. Returns the resulting day.
func (r *Reconciler) Reconcile(ctx context.Context, userID int) (int, error) {
	records, err := r.days.AllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load day records: %w", err)
	}

	lastCompleted := 0
	for _, rec := range records {
		if completion.IsCompleted(rec) && rec.DayNumber > lastCompleted {
			lastCompleted = rec.DayNumber
		}
	}

	baseline := lastCompleted + 1
	if err := r.clock.SetCurrentDay(ctx, userID, baseline); err != nil {
		return 0, fmt.Errorf("set current day: %w", err)
	}

	// Anchor the start date (baseline-1) days in the past so UpdateFromTime
	// yields baseline today and advances one day per elapsed calendar day.
	start := r.now().Add(-time.Duration(baseline-1) * 24 * time.Hour)
	if err := r.clock.SetStartDate(ctx, userID, start); err != nil {
		return 0, fmt.Errorf("set start date: %w", err)
	}

	r.log.Info("reconciled challenge progress",
		zap.Int("user_id", userID),
		zap.Int("last_completed_day", lastCompleted),
		zap.Int("current_day", baseline))
	return baseline, nil
}

// AllCompletedBefore reports whether every day in [1, untilDay) passes the
// completion predicate. Missing records count as incomplete.
func (r *Reconciler) AllCompletedBefore(ctx context.Context, userID, untilDay int) (bool, error) {
	for day := 1; day < untilDay; day++ {
		rec, err := r.days.Day(ctx, userID, day)
		if err != nil {
			return false, err
		}
		if rec == nil || !completion.IsCompleted(*rec) {
			return false, nil
		}
	}
	return true, nil
}

// WeightLoss derives the weight lost from the first recorded weight and the
// latest one, clamped to zero when no weight was lost.
func WeightLoss(first, latest float64) float64 {
	if latest < first {
		return first - latest
	}
	return 0
}
