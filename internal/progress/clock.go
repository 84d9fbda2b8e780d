// Package progress owns the challenge day counter: the preference-backed
// clock that derives the current day from elapsed time, and the
// reconciliation that re-anchors it after a remote import.
package progress

import (
	"context"
	"strconv"
	"sync"
	"time"

	"hard75/internal/store"
)

const (
	challengeNamespace    = "challenge"
	notificationNamespace = "notifications"

	currentDayKey    = "current_day"
	startDateKey     = "start_date"
	notificationsKey = "enabled"
)

// Clock owns per-user challenge progress state. Every read and write of
// current day, start date and the notifications flag goes through it; its
// mutex serializes mutations so concurrent callers see a consistent day.
//
// Under normal operation currentDay == floor((now-startDate)/24h)+1. A
// remote import breaks that deliberately; Reconciler restores it.
type Clock struct {
	mu    sync.Mutex
	prefs store.PrefStore
	now   func() time.Time
}

// NewClock creates a clock over the preference store. A nil now defaults to
// time.Now.
func NewClock(prefs store.PrefStore, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{prefs: prefs, now: now}
}

// CurrentDay returns the persisted day number, defaulting to 1.
func (c *Clock) CurrentDay(ctx context.Context, userID int) (int, error) {
	v, ok, err := c.prefs.Get(ctx, userID, challengeNamespace, currentDayKey)
	if err != nil || !ok {
		return 1, err
	}
	day, err := strconv.Atoi(v)
	if err != nil || day < 1 {
		return 1, nil
	}
	return day, nil
}

// SetCurrentDay persists the day number.
func (c *Clock) SetCurrentDay(ctx context.Context, userID, day int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCurrentDayLocked(ctx, userID, day)
}

func (c *Clock) setCurrentDayLocked(ctx context.Context, userID, day int) error {
	return c.prefs.Set(ctx, userID, challengeNamespace, currentDayKey, strconv.Itoa(day))
}

// StartDate returns the persisted day-1 timestamp, defaulting to now when
// never set.
func (c *Clock) StartDate(ctx context.Context, userID int) (time.Time, error) {
	v, ok, err := c.prefs.Get(ctx, userID, challengeNamespace, startDateKey)
	if err != nil || !ok {
		return c.now(), err
	}
	millis, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return c.now(), nil
	}
	return time.UnixMilli(millis), nil
}

// SetStartDate persists the day-1 timestamp as epoch milliseconds.
func (c *Clock) SetStartDate(ctx context.Context, userID int, t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setStartDateLocked(ctx, userID, t)
}

func (c *Clock) setStartDateLocked(ctx context.Context, userID int, t time.Time) error {
	return c.prefs.Set(ctx, userID, challengeNamespace, startDateKey, strconv.FormatInt(t.UnixMilli(), 10))
}

// Started reports whether the challenge has ever been explicitly started,
// i.e. a start date has been written.
func (c *Clock) Started(ctx context.Context, userID int) (bool, error) {
	_, ok, err := c.prefs.Get(ctx, userID, challengeNamespace, startDateKey)
	return ok, err
}

// Reset clears all persisted challenge state and restarts at day 1 with the
// start date set to now. Used on registration, on an explicit restart, and
// on logout so the next session never inherits a stale day.
func (c *Clock) Reset(ctx context.Context, userID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.prefs.Clear(ctx, userID, challengeNamespace); err != nil {
		return err
	}
	if err := c.setCurrentDayLocked(ctx, userID, 1); err != nil {
		return err
	}
	return c.setStartDateLocked(ctx, userID, c.now())
}

// UpdateFromTime recomputes the current day from wall-clock time elapsed
// since the start date and returns it. The result is clamped to a minimum
// of 1: a start date in the future (clock skew, corrupted state) must never
// persist a non-positive day.
func (c *Clock) UpdateFromTime(ctx context.Context, userID int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start, err := c.StartDate(ctx, userID)
	if err != nil {
		return 0, err
	}
	day := int(c.now().Sub(start)/(24*time.Hour)) + 1
	if day < 1 {
		day = 1
	}
	if err := c.setCurrentDayLocked(ctx, userID, day); err != nil {
		return 0, err
	}
	return day, nil
}

// NotificationsEnabled returns the reminder flag, defaulting to false.
func (c *Clock) NotificationsEnabled(ctx context.Context, userID int) (bool, error) {
	v, ok, err := c.prefs.Get(ctx, userID, notificationNamespace, notificationsKey)
	if err != nil || !ok {
		return false, err
	}
	return v == "true", nil
}

// SetNotificationsEnabled persists the reminder flag.
func (c *Clock) SetNotificationsEnabled(ctx context.Context, userID int, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs.Set(ctx, userID, notificationNamespace, notificationsKey, strconv.FormatBool(enabled))
}
