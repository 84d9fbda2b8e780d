// Package completion holds the single source of truth for whether a day of
// the challenge counts as done. Every caller (task updates, reconciliation,
// lookback checks) goes through IsCompleted; nothing else reimplements the
// rule set.
package completion

import "hard75/internal/models"

// WaterGoalLiters is the daily water requirement. Exactly this amount
// satisfies the requirement.
const WaterGoalLiters = 3.7

// TotalDays is the length of the program.
const TotalDays = 75

// IsCompleted reports whether every requirement of a challenge day is met:
// diet, reading and no-alcohol checked, the water goal reached, a progress
// picture taken, and both an indoor and an outdoor workout logged. There is
// no partial credit. The cached Completed flag on the record is ignored.
func IsCompleted(r models.DayRecord) bool {
	return r.Diet &&
		r.Reading &&
		r.WaterIntake >= WaterGoalLiters &&
		r.ProgressPictureURL != nil &&
		r.NoAlcohol &&
		r.IndoorWorkout != nil &&
		r.OutdoorWorkout != nil
}
