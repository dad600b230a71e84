// Package scheduler wires the cron jobs that keep the feed fresh: the
// periodic aggregation pass and the store cleanup.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Every registers task to run on a fixed minute interval.
func (s *Scheduler) Every(minutes int, name string, task func()) error {
	spec := fmt.Sprintf("@every %dm", minutes)
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Infow("scheduled task firing", "task", name)
		task()
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Infow("task scheduled", "task", name, "spec", spec)
	return nil
}

// Daily registers task to run once a day.
func (s *Scheduler) Daily(name string, task func()) error {
	_, err := s.cron.AddFunc("@daily", func() {
		s.log.Infow("scheduled task firing", "task", name)
		task()
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// Start runs the cron loop and fires kickoff immediately (non-blocking)
// so the feed is populated without waiting for the first tick.
func (s *Scheduler) Start(kickoff func()) {
	s.cron.Start()
	s.log.Infow("scheduler started")
	if kickoff != nil {
		go kickoff()
	}
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Infow("scheduler stopped")
}
