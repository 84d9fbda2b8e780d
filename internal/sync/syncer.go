package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"hard75/internal/completion"
	"hard75/internal/models"
	"hard75/internal/progress"
	"hard75/internal/remote"
	"hard75/internal/store"
)

type syncer struct {
	days   store.DayStore
	users  store.UserStore
	remote remote.Store
	recon  *progress.Reconciler
	online Connectivity
	log    *zap.Logger

	// one in-flight pull per user; concurrent callers share the result so
	// two reconciliations can never interleave on the same clock.
	pulls singleflight.Group
}

// New creates a Syncer. A nil logger discards output.
func New(days store.DayStore, users store.UserStore, rem remote.Store, recon *progress.Reconciler, online Connectivity, log *zap.Logger) Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &syncer{days: days, users: users, remote: rem, recon: recon, online: online, log: log}
}

func (s *syncer) email(ctx context.Context, userID int) (string, error) {
	email, err := s.users.EmailByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("resolve email for user %d: %w", userID, err)
	}
	if email == "" {
		return "", fmt.Errorf("no email for user %d", userID)
	}
	return email, nil
}

func (s *syncer) PushAll(ctx context.Context, userID int) error {
	if !s.online.Online(ctx) {
		s.log.Info("push skipped, network unavailable", zap.Int("user_id", userID))
		return ErrOffline
	}
	email, err := s.email(ctx, userID)
	if err != nil {
		return err
	}

	records, err := s.days.AllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load day records: %w", err)
	}
	var failed int
	for _, rec := range records {
		if err := s.remote.SaveDay(ctx, email, rec); err != nil {
			failed++
			s.log.Warn("day push failed", zap.Int("day", rec.DayNumber), zap.String("email", email), zap.Error(err))
			continue
		}
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("no user %d", userID)
	}
	if err := s.remote.SaveProfile(ctx, profileOf(user)); err != nil {
		return err
	}

	s.log.Info("push complete",
		zap.String("email", email),
		zap.Int("days", len(records)),
		zap.Int("failed", failed))
	return nil
}

func (s *syncer) PullAll(ctx context.Context, userID int) error {
	_, err, _ := s.pulls.Do(strconv.Itoa(userID), func() (any, error) {
		return nil, s.pullAll(ctx, userID)
	})
	return err
}

func (s *syncer) pullAll(ctx context.Context, userID int) error {
	if !s.online.Online(ctx) {
		s.log.Info("pull skipped, network unavailable", zap.Int("user_id", userID))
		return ErrOffline
	}
	email, err := s.email(ctx, userID)
	if err != nil {
		return err
	}

	records, err := s.remote.Days(ctx, email)
	if err != nil {
		return fmt.Errorf("fetch remote days: %w", err)
	}
	for _, rec := range records {
		// The remote document carries no portable local id and its cached
		// completion flag may be stale; both are rebuilt here.
		rec.UserID = userID
		rec.Completed = completion.IsCompleted(rec)
		if err := s.days.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("store day %d: %w", rec.DayNumber, err)
		}
	}
	s.log.Info("remote days stored", zap.String("email", email), zap.Int("count", len(records)))

	if _, err := s.recon.Reconcile(ctx, userID); err != nil {
		return err
	}

	if err := s.mergeProfile(ctx, userID, email); err != nil {
		return err
	}

	if _, err := s.UpdateWeightLost(ctx, userID, true); err != nil {
		return err
	}
	return nil
}

// mergeProfile pulls the remote profile document and folds it into the
// local row: inserted wholesale when no local profile exists, otherwise the
// remote values win for the mutable attributes while the local numeric id
// and password hash are preserved. A missing remote document means there is
// nothing to merge.
func (s *syncer) mergeProfile(ctx context.Context, userID int, email string) error {
	p, err := s.remote.Profile(ctx, email)
	if errors.Is(err, remote.ErrNotFound) {
		s.log.Info("no remote profile", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}

	local, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("load local user: %w", err)
	}
	if local == nil {
		u := models.User{
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Email:      email,
			Address:    p.Address,
			City:       p.City,
			Height:     p.Height,
			WeightLost: p.WeightLost,
		}
		if err := s.users.Insert(ctx, &u); err != nil {
			return fmt.Errorf("insert fetched user: %w", err)
		}
		return nil
	}

	// Compare only the mutable profile attributes: the remote document
	// never carries credentials, so whole-record equality would always
	// report a difference.
	if local.FirstName == p.FirstName && local.LastName == p.LastName &&
		local.Address == p.Address && local.City == p.City &&
		local.Height == p.Height && local.WeightLost == p.WeightLost {
		return nil
	}

	local.FirstName = p.FirstName
	local.LastName = p.LastName
	local.Address = p.Address
	local.City = p.City
	local.Height = p.Height
	local.WeightLost = p.WeightLost
	if err := s.users.Update(ctx, local); err != nil {
		return fmt.Errorf("update local user: %w", err)
	}
	return nil
}

func (s *syncer) UpdateWeightLost(ctx context.Context, userID int, push bool) (float64, error) {
	first, err := s.days.Day(ctx, userID, 1)
	if err != nil {
		return 0, err
	}
	if first == nil || first.Weight == nil {
		return 0, nil
	}

	records, err := s.days.AllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	var latest *float64
	for _, rec := range records {
		if rec.Weight != nil {
			latest = rec.Weight
		}
	}
	if latest == nil {
		return 0, nil
	}

	lost := progress.WeightLoss(*first.Weight, *latest)
	user, err := s.users.ByID(ctx, userID)
	if err != nil || user == nil {
		return 0, err
	}
	user.WeightLost = lost
	if err := s.users.Update(ctx, user); err != nil {
		return 0, fmt.Errorf("store weight lost: %w", err)
	}

	if push && s.online.Online(ctx) {
		if err := s.remote.SaveProfile(ctx, profileOf(user)); err != nil {
			// Local state is allowed to run ahead of remote.
			s.log.Warn("weight lost push failed", zap.Int("user_id", userID), zap.Error(err))
		}
	}
	return lost, nil
}

func profileOf(u *models.User) remote.Profile {
	return remote.Profile{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Address:    u.Address,
		City:       u.City,
		Height:     u.Height,
		WeightLost: u.WeightLost,
	}
}
