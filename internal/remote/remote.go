// Package remote is the document-store replica used for cross-device sync
// and the leaderboard read path. Documents are keyed by the user's email,
// the only identifier stable across devices and reinstalls; the local
// numeric id never leaves the device.
package remote

import (
	"context"
	"errors"

	"hard75/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
// Callers treat it as "nothing to reconcile", not as a failure.
var ErrNotFound = errors.New("remote: document not found")

// Profile is the user document stored remotely. It carries only the mutable
// profile attributes; credentials never leave the local store.
type Profile struct {
	FirstName  string  `firestore:"firstName"`
	LastName   string  `firestore:"lastName"`
	Email      string  `firestore:"email"`
	Address    string  `firestore:"address"`
	City       string  `firestore:"city"`
	Height     int     `firestore:"height"`
	WeightLost float64 `firestore:"weightLost"`
}

// Feedback is a free-form user feedback document.
type Feedback struct {
	UserID    int    `firestore:"userId"`
	Text      string `firestore:"feedbackText"`
	Timestamp int64  `firestore:"timestamp"`
}

// Store is the remote document store consumed by the sync orchestrator.
type Store interface {
	// SaveProfile overwrites the profile document keyed by the profile's email.
	SaveProfile(ctx context.Context, p Profile) error

	// Profile fetches one profile document, or ErrNotFound.
	Profile(ctx context.Context, email string) (*Profile, error)

	// AllProfiles lists every profile document (ranking read path).
	AllProfiles(ctx context.Context) ([]Profile, error)

	// SaveDay overwrites one day document under the user's collection,
	// keyed by day number.
	SaveDay(ctx context.Context, email string, rec models.DayRecord) error

	// Days fetches all day documents for the user. A user with no documents
	// yields an empty slice, not an error.
	Days(ctx context.Context, email string) ([]models.DayRecord, error)

	// SaveFeedback appends a feedback document.
	SaveFeedback(ctx context.Context, fb Feedback) error
}
