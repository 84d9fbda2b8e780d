// Package sync keeps the local store and the remote document store in step.
//
// The syncer is resilient: individual day-record failures during a push are
// logged and the push continues with the remaining records. Within a single
// pull the steps are strictly sequential (remote fetch, local upserts,
// reconciliation, profile merge, profile push-back) because the weight-loss
// recomputation reads day records that must already be local.
package sync

import (
	"context"
	"errors"
)

// ErrOffline is returned when no network is reachable. It is a reported
// skip, not a failure: the caller proceeds with local-only state and the
// next natural trigger (login, app start) retries.
var ErrOffline = errors.New("sync: network unavailable")

// Syncer is bidirectional synchronization for one user at a time.
type Syncer interface {
	// PushAll upserts every local day record and the user profile to the
	// remote store, keyed by the user's email. Best-effort per record; does
	// not mutate local state.
	PushAll(ctx context.Context, userID int) error

	// PullAll fetches remote day records, upserts them locally with
	// completion recomputed, reconciles the progress clock, merges the
	// remote profile into the local one (remote wins for profile
	// attributes, the local id and credentials are preserved), then
	// recomputes weight lost and pushes the corrected profile back.
	// Concurrent calls for the same user share one in-flight run.
	PullAll(ctx context.Context, userID int) error

	// UpdateWeightLost recomputes the user's weight lost from the first and
	// latest recorded weights, stores it locally and, when push is set and
	// the network is up, pushes the corrected profile remotely. Returns the
	// new value. Without both a first-day and a latest weight it is a no-op.
	UpdateWeightLost(ctx context.Context, userID int, push bool) (float64, error)
}
