// Package store defines the local persistence interfaces the challenge
// logic runs against, with a Postgres implementation for the server and an
// in-memory implementation for tests. Local storage is the source of truth
// for current state; the remote document store is a replica for cross-device
// continuity.
package store

import (
	"context"

	"hard75/internal/models"
)

// DayStore persists day records. Lookups that find nothing return (nil, nil);
// absence is not an error.
type DayStore interface {
	// Day returns the record for one (user, day number), or nil.
	Day(ctx context.Context, userID, dayNumber int) (*models.DayRecord, error)

	// AllForUser returns every record for the user ordered by day number.
	AllForUser(ctx context.Context, userID int) ([]models.DayRecord, error)

	// Upsert inserts the record or replaces the existing row for the same
	// (user, day number).
	Upsert(ctx context.Context, rec models.DayRecord) error

	// UpdateWeight sets the weight for one day, leaving other fields alone.
	UpdateWeight(ctx context.Context, userID, dayNumber int, weight float64) error

	// ProgressPictures lists the days that have a progress photo, in day order.
	ProgressPictures(ctx context.Context, userID int) ([]models.ProgressPicture, error)

	// DeleteForUser removes all of the user's day records (challenge restart).
	DeleteForUser(ctx context.Context, userID int) error
}

// UserStore persists user profiles.
type UserStore interface {
	ByID(ctx context.Context, id int) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	EmailByID(ctx context.Context, id int) (string, error)

	// Insert stores a new user and fills in the generated numeric id.
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	All(ctx context.Context) ([]models.User, error)
}

// PrefStore is scoped key-value persistence, namespaced per concern
// (challenge progress vs. notification settings). All progress reads and
// writes go through the progress clock, never directly through this store.
type PrefStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, userID int, namespace, key string) (string, bool, error)
	Set(ctx context.Context, userID int, namespace, key, value string) error

	// Clear removes every key in the namespace for the user.
	Clear(ctx context.Context, userID int, namespace string) error
}
