package remote

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hard75/internal/models"
)

const (
	usersCollection    = "users"
	daysCollection     = "days"
	feedbackCollection = "feedback"
)

// Firestore implements Store against Cloud Firestore. Layout: one document
// per user at users/{email}, with day records in a days/{dayNumber}
// subcollection, and a flat feedback collection.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps an initialized client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) SaveProfile(ctx context.Context, p Profile) error {
	_, err := f.client.Collection(usersCollection).Doc(p.Email).Set(ctx, p)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.Email, err)
	}
	return nil
}

func (f *Firestore) Profile(ctx context.Context, email string) (*Profile, error) {
	snap, err := f.client.Collection(usersCollection).Doc(email).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", email, err)
	}
	// DataTo defaults any missing field to its zero value, so a partially
	// populated document still yields a usable profile.
	var p Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", email, err)
	}
	return &p, nil
}

func (f *Firestore) AllProfiles(ctx context.Context) ([]Profile, error) {
	iter := f.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var out []Profile
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		var p Profile
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", snap.Ref.ID, err)
		}
		out = append(out, p)
	}
}

func (f *Firestore) SaveDay(ctx context.Context, email string, rec models.DayRecord) error {
	_, err := f.client.Collection(usersCollection).Doc(email).
		Collection(daysCollection).Doc(strconv.Itoa(rec.DayNumber)).Set(ctx, rec)
	if err != nil {
		return fmt.Errorf("save day %d for %s: %w", rec.DayNumber, email, err)
	}
	return nil
}

func (f *Firestore) Days(ctx context.Context, email string) ([]models.DayRecord, error) {
	iter := f.client.Collection(usersCollection).Doc(email).Collection(daysCollection).Documents(ctx)
	defer iter.Stop()

	var out []models.DayRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list days for %s: %w", email, err)
		}
		var rec models.DayRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode day %s for %s: %w", snap.Ref.ID, email, err)
		}
		out = append(out, rec)
	}
}

func (f *Firestore) SaveFeedback(ctx context.Context, fb Feedback) error {
	_, _, err := f.client.Collection(feedbackCollection).Add(ctx, fb)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}
