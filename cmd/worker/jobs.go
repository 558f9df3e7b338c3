package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/fantasy-cricket/internal/app"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

const (
	jobScheduler  = "scheduler"
	jobAutoSubmit = "autosubmit"
	jobFullSync   = "fullsync"
	jobTotals     = "totals"
)

type job struct {
	name     string
	schedule string
	timeout  time.Duration
	run      func(ctx context.Context) error
}

type jobRunner struct {
	jobs   []job
	logger *logging.Logger
}

func newJobRunner(a *app.App, cfg config.Config, logger *logging.Logger) *jobRunner {
	logger = logger.Named("worker")
	perMatch := cfg.SyncMatchTimeout
	if perMatch <= 0 {
		perMatch = time.Minute
	}

	jobs := []job{
		{
			name:     jobScheduler,
			schedule: cfg.CronScheduler,
			timeout:  10 * perMatch,
			run: func(ctx context.Context) error {
				result, err := a.Scheduler.Run(ctx)
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "scheduler tick", "due", result.Due, "claimed", result.Claimed, "succeeded", result.Succeeded, "failed", result.Failed)
				return nil
			},
		},
		{
			name:     jobAutoSubmit,
			schedule: cfg.CronAutoSubmit,
			timeout:  5 * time.Minute,
			run: func(ctx context.Context) error {
				result, err := a.AutoSubmission.Run(ctx)
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "auto submission tick", "matches", result.Matches, "inserted", result.Inserted, "pointers_advanced", result.PointersAdvanced)
				return nil
			},
		},
		{
			name:    jobTotals,
			timeout: 5 * time.Minute,
			run: func(ctx context.Context) error {
				written, err := a.MatchSync.RecomputeSeasonTotals(ctx)
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "season totals recomputed", "players", written)
				return nil
			},
		},
	}

	if cfg.TournamentSeriesID == "" {
		logger.Warn("full sync job disabled", "reason", "TOURNAMENT_SERIES_ID empty")
	} else {
		jobs = append(jobs, job{
			name:     jobFullSync,
			schedule: cfg.CronFullSync,
			timeout:  100 * perMatch,
			run: func(ctx context.Context) error {
				_, err := a.MatchSync.Sync(ctx)
				return err
			},
		})
	}

	return &jobRunner{jobs: jobs, logger: logger}
}

// register adds every job with a schedule. Jobs without one only run through -run.
func (r *jobRunner) register(c *cron.Cron) error {
	for _, j := range r.jobs {
		if j.schedule == "" {
			continue
		}
		if _, err := c.AddFunc(j.schedule, func() {
			_ = r.execute(context.Background(), j)
		}); err != nil {
			return fmt.Errorf("schedule job %s (%q): %w", j.name, j.schedule, err)
		}
		r.logger.Info("job scheduled", "job", j.name, "schedule", j.schedule)
	}
	return nil
}

func (r *jobRunner) runByName(ctx context.Context, name string) error {
	idx := slices.IndexFunc(r.jobs, func(j job) bool { return j.name == name })
	if idx < 0 {
		return fmt.Errorf("unknown job %q", name)
	}
	return r.execute(ctx, r.jobs[idx])
}

func (r *jobRunner) execute(ctx context.Context, j job) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	started := time.Now()
	err := j.run(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "job failed", "job", j.name, "duration", time.Since(started), "error", err)
		return err
	}
	r.logger.DebugContext(ctx, "job finished", "job", j.name, "duration", time.Since(started))
	return nil
}
