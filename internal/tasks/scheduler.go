package tasks

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Refresher is anything that re-fetches remote state on a schedule.
type Refresher interface {
	Refresh(ctx context.Context)
}

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	mu      sync.Mutex
}

// NewScheduler creates a scheduler whose jobs each get timeout to finish.
func NewScheduler(timeout time.Duration) *Scheduler {
	return &Scheduler{cron: cron.New(), timeout: timeout}
}

// AddRefresh runs r on spec (a cron expression or "@every 1h").
func (s *Scheduler) AddRefresh(spec, name string, r Refresher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		r.Refresh(ctx)
		log.Debug().Str("task", name).Dur("took", time.Since(start)).Msg("scheduled refresh finished")
	}
	if _, err := s.cron.AddFunc(spec, recoveryWrapper(name, job)); err != nil {
		log.Error().Err(err).Str("task", name).Str("spec", spec).Msg("failed to schedule task")
		return err
	}
	log.Info().Str("task", name).Str("spec", spec).Msg("task scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cron.Entries()) == 0 {
		log.Info().Msg("no scheduled tasks")
	}
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func recoveryWrapper(name string, job func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("task", name).Interface("panic", r).Bytes("stack", debug.Stack()).Msg("scheduled task panicked")
			}
		}()
		job()
	}
}
