package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"reminder-bot/kv"
	"reminder-bot/model"
	"reminder-bot/tasks"
	"reminder-bot/utils/database"
)

// RunStateStore persists when a shard last completed a tick.
type RunStateStore interface {
	Load(ctx context.Context, shardKey uuid.UUID) (*model.JobState, error)
	Save(ctx context.Context, state model.JobState) error
}

// JobDeps are handed to every job through its JobArgs.
type JobDeps struct {
	DB        *database.DB
	KV        *kv.Client
	Config    model.Config
	Messenger tasks.Messenger
	// Clock defaults to the system clock.
	Clock model.Clock
}

// Scheduler runs its jobs once per interval, in registration order, and
// records each tick's instant so the next tick picks up where it left off.
type Scheduler struct {
	jobs     []tasks.Job
	shardKey uuid.UUID
	interval time.Duration
	states   RunStateStore
	deps     JobDeps
	clock    model.Clock
}

// TickReport summarises a single tick.
type TickReport struct {
	LastRun   time.Time
	Now       time.Time
	Completed int
	Failed    int
	// Skipped is set when the run-state could not be read and no job ran.
	Skipped   bool
	Persisted bool
}

// NewScheduler validates its arguments and returns an idle scheduler.
func NewScheduler(jobs []tasks.Job, shardKey uuid.UUID, interval time.Duration, states RunStateStore, deps JobDeps) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: job interval must be positive, got %s", model.ErrConfiguration, interval)
	}
	if states == nil {
		return nil, fmt.Errorf("%w: scheduler needs a run-state store", model.ErrConfiguration)
	}
	clock := deps.Clock
	if clock == nil {
		clock = model.SystemClock{}
	}
	return &Scheduler{
		jobs:     jobs,
		shardKey: shardKey,
		interval: interval,
		states:   states,
		deps:     deps,
		clock:    clock,
	}, nil
}

// Run ticks immediately and then on every interval boundary measured from the
// moment it was called. It returns at once when there are no jobs, and
// otherwise only when ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.jobs) == 0 {
		log.Warn().Msg("no jobs registered, scheduler not started")
		return nil
	}

	start := s.clock.Now()
	log.Info().
		Str("shard", s.shardKey.String()).
		Dur("interval", s.interval).
		Int("jobs", len(s.jobs)).
		Msg("starting job scheduler")

	for {
		s.Tick(ctx)

		now := s.clock.Now()
		next := nextTick(start, s.interval, now)
		log.Trace().Time("next", next).Msg("scheduler sleeping")
		select {
		case <-time.After(next.Sub(now)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Tick runs every job once over the window [last run, now) and records now
// as the shard's last run.
func (s *Scheduler) Tick(ctx context.Context) TickReport {
	now := s.clock.Now()
	report := TickReport{Now: now}

	state, err := s.states.Load(ctx, s.shardKey)
	if err != nil {
		log.Error().Err(err).Str("shard", s.shardKey.String()).Msg("could not read run-state, skipping tick")
		report.Skipped = true
		return report
	}
	report.LastRun = now
	if state != nil {
		report.LastRun = state.LastRun
	}

	args := &tasks.JobArgs{
		LastRun:   report.LastRun,
		Now:       now,
		Interval:  s.interval,
		DB:        s.deps.DB,
		KV:        s.deps.KV,
		Config:    s.deps.Config,
		Messenger: s.deps.Messenger,
		// jobs see the tick instant so consecutive windows meet exactly
		Clock: model.FixedClock(now),
	}

	for _, job := range s.jobs {
		if err := runJob(ctx, job, args); err != nil {
			report.Failed++
			log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
			continue
		}
		report.Completed++
	}

	next := model.JobStateFor(s.shardKey)
	next.LastRun = now
	if err := s.states.Save(ctx, next); err != nil {
		log.Error().Err(err).Str("shard", s.shardKey.String()).Msg("could not persist run-state")
	} else {
		report.Persisted = true
	}

	log.Debug().
		Time("last_run", report.LastRun).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Msg("tick finished")
	return report
}

func runJob(ctx context.Context, job tasks.Job, args *tasks.JobArgs) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Run(ctx, args)
}

// nextTick returns the first instant start+k*interval strictly after now.
func nextTick(start time.Time, interval time.Duration, now time.Time) time.Time {
	if now.Before(start) {
		return start.Add(interval)
	}
	k := now.Sub(start)/interval + 1
	return start.Add(k * interval)
}
