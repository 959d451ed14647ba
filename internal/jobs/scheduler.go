package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Counter reports how many records a store holds. Both repositories satisfy
// it through their CountAll methods.
type Counter interface {
	CountAll(ctx context.Context) (int, error)
}

// Scheduler runs periodic maintenance work. The only job is a store stats
// heartbeat, logged so operators can see the collections are reachable and
// roughly how big they are.
type Scheduler struct {
	cron     *cron.Cron
	users    Counter
	notes    Counter
	interval time.Duration
	log      zerolog.Logger
}

func NewScheduler(users, notes Counter, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		users:    users,
		notes:    notes,
		interval: interval,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.logStats); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits up to five seconds for a running job.
func (s *Scheduler) Stop() {
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) logStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userCount, err := s.users.CountAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("stats: count users failed")
		return
	}
	noteCount, err := s.notes.CountAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("stats: count notes failed")
		return
	}

	s.log.Info().
		Int("users", userCount).
		Int("notes", noteCount).
		Msg("store stats")
}
