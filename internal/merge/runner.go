// Package merge keeps caller histories in step with the device call log by
// running the merge on a schedule and on demand.
package merge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"leadtrack/internal/lead"
)

// JobTag identifies the periodic merge job in the scheduler.
const JobTag = "merge"

// Merger performs one merge pass and reports how many records changed.
type Merger interface {
	MergeCallLog() (int, error)
}

// Runner runs merges on a fixed interval and whenever Trigger is called.
// At most one merge runs at a time; a request that arrives while one is in
// flight is skipped, since the running pass reads the same call log.
type Runner struct {
	merger    Merger
	interval  time.Duration
	logger    lead.Logger
	scheduler *gocron.Scheduler

	running sync.Mutex
	started bool
}

// NewRunner returns a Runner that schedules in loc.
func NewRunner(merger Merger, interval time.Duration, loc *time.Location, logger lead.Logger) *Runner {
	if logger == nil {
		logger = lead.NewNopLogger()
	}
	if loc == nil {
		loc = time.Local
	}
	scheduler := gocron.NewScheduler(loc)
	scheduler.TagsUnique()
	return &Runner{
		merger:    merger,
		interval:  interval,
		logger:    logger,
		scheduler: scheduler,
	}
}

// Start registers the periodic job and starts the scheduler in the background.
func (r *Runner) Start() error {
	if r.interval <= 0 {
		return fmt.Errorf("merge interval must be positive, got %s", r.interval)
	}
	if r.started {
		return nil
	}
	if _, err := r.scheduler.Every(r.interval).Tag(JobTag).Do(func() { r.Trigger() }); err != nil {
		return fmt.Errorf("scheduling merge: %w", err)
	}
	r.scheduler.StartAsync()
	r.started = true
	r.logger.Info("merge scheduler started", "interval", r.interval.String())
	return nil
}

// Stop halts the scheduler. A merge already running completes.
func (r *Runner) Stop() {
	if !r.started {
		return
	}
	r.scheduler.Stop()
	r.started = false
	r.logger.Info("merge scheduler stopped")
}

// Trigger runs one merge now unless one is already in flight. It reports
// whether a merge ran.
func (r *Runner) Trigger() bool {
	if !r.running.TryLock() {
		r.logger.Debug("merge already running, skipping")
		return false
	}
	defer r.running.Unlock()

	start := time.Now()
	changed, err := r.merger.MergeCallLog()
	if err != nil {
		r.logger.Error("merge failed", "error", err)
		return true
	}
	if changed > 0 {
		r.logger.Info("merge complete", "changed", changed, "elapsed", time.Since(start).String())
	} else {
		r.logger.Debug("merge complete, nothing changed")
	}
	return true
}

// Watch starts the schedule, merges on every value received from triggers,
// and stops when ctx is done.
func (r *Runner) Watch(ctx context.Context, triggers <-chan struct{}) error {
	if err := r.Start(); err != nil {
		return err
	}
	defer r.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-triggers:
			if !ok {
				triggers = nil
				continue
			}
			r.Trigger()
		}
	}
}
