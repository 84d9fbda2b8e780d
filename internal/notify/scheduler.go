package notify

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hard75/internal/progress"
	"hard75/internal/store"
)

// Scheduler runs the reminder fan-out on a daily cadence plus an extra
// seven-hour nudge, mirroring the two periodic jobs of the mobile app.
type Scheduler struct {
	cron     *cron.Cron
	users    store.UserStore
	clock    *progress.Clock
	notifier Notifier
	log      *zap.Logger
}

// NewScheduler wires the cron jobs but does not start them.
func NewScheduler(users store.UserStore, clock *progress.Clock, notifier Notifier, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(),
		users:    users,
		clock:    clock,
		notifier: notifier,
		log:      log,
	}
}

// Start registers the daily and seven-hourly jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	run := func() { s.RunOnce(context.Background()) }
	if _, err := s.cron.AddFunc("@daily", run); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 7h", run); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce sends one reminder to every user with notifications enabled.
func (s *Scheduler) RunOnce(ctx context.Context) {
	users, err := s.users.All(ctx)
	if err != nil {
		s.log.Warn("reminder run failed to list users", zap.Error(err))
		return
	}
	for _, u := range users {
		enabled, err := s.clock.NotificationsEnabled(ctx, u.ID)
		if err != nil {
			s.log.Warn("could not read notifications flag", zap.Int("user_id", u.ID), zap.Error(err))
			continue
		}
		if !enabled {
			continue
		}
		if err := s.notifier.Send(u.ID, RandomMessage()); err != nil {
			s.log.Warn("reminder delivery failed", zap.Int("user_id", u.ID), zap.Error(err))
		}
	}
}
