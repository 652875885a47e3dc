package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper periodically deletes expired sessions
type Sweeper struct {
	cron  *cron.Cron
	store Store
	log   *logrus.Logger
	now   func() time.Time
}

// NewSweeper schedules Sweep every interval
func NewSweeper(store Store, log *logrus.Logger, interval time.Duration) (*Sweeper, error) {
	s := &Sweeper{
		cron:  cron.New(),
		store: store,
		log:   log,
		now:   time.Now,
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.Sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	return s, nil
}

// Start runs the schedule in the background
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep deletes expired sessions once
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		s.log.WithError(err).Error("Failed to sweep expired sessions")
		return
	}
	if n > 0 {
		s.log.Infof("Removed %d expired sessions", n)
	}
}
