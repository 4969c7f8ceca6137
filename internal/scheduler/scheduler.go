package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name       string
	fn         func(ctx context.Context) error
	interval   time.Duration
	runAtStart bool
}

// Scheduler runs registered jobs on fixed intervals until stopped.
type Scheduler struct {
	jobs []job
	stop chan struct{}
	wg   sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{stop: make(chan struct{})}
}

func (s *Scheduler) NewIntervalJob(name string, fn func(ctx context.Context) error, interval time.Duration, runAtStart bool) {
	s.jobs = append(s.jobs, job{name: name, fn: fn, interval: interval, runAtStart: runAtStart})
}

func (s *Scheduler) Start() {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.run(j)
	}
	slog.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
}

func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) run(j job) {
	defer s.wg.Done()

	if j.runAtStart {
		s.runOnce(j)
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(j)
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) runOnce(j job) {
	op := "Scheduler.runOnce"

	if err := j.fn(context.Background()); err != nil {
		slog.Error("job failed", slog.String("op", op), slog.String("job", j.name), slog.String("err", err.Error()))
		return
	}
	slog.Debug("job finished", slog.String("op", op), slog.String("job", j.name))
}
