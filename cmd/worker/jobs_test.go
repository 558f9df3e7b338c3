package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

func TestJobRunner_RegisterSkipsUnscheduledJobs(t *testing.T) {
	t.Parallel()

	runner := &jobRunner{
		logger: logging.NewNop(),
		jobs: []job{
			{name: "a", schedule: "@every 1m", run: func(context.Context) error { return nil }},
			{name: "b", run: func(context.Context) error { return nil }},
			{name: "c", schedule: "0 3 * * *", run: func(context.Context) error { return nil }},
		},
	}

	c := cron.New()
	if err := runner.register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := len(c.Entries()); got != 2 {
		t.Fatalf("unexpected entries: got=%d want=2", got)
	}
}

func TestJobRunner_RegisterRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	runner := &jobRunner{
		logger: logging.NewNop(),
		jobs:   []job{{name: "broken", schedule: "every now and then", run: func(context.Context) error { return nil }}},
	}
	if err := runner.register(cron.New()); err == nil {
		t.Fatalf("expected error for invalid cron schedule")
	}
}

func TestJobRunner_RunByNameAppliesTimeout(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	var deadline time.Time
	runner := &jobRunner{
		logger: logging.NewNop(),
		jobs: []job{
			{
				name:    "totals",
				timeout: time.Minute,
				run: func(ctx context.Context) error {
					deadline, _ = ctx.Deadline()
					return errBoom
				},
			},
		},
	}

	if err := runner.runByName(t.Context(), "totals"); !errors.Is(err, errBoom) {
		t.Fatalf("expected job error, got %v", err)
	}
	if deadline.IsZero() {
		t.Fatalf("expected a deadline on the job context")
	}
	if err := runner.runByName(t.Context(), "missing"); err == nil {
		t.Fatalf("expected error for unknown job")
	}
}

func TestCronLogger_SatisfiesCronLogger(t *testing.T) {
	t.Parallel()

	var l cron.Logger = newCronLogger(logging.NewNop())
	l.Info("wake", "now", time.Now())
	l.Error(errors.New("panic"), "job panicked", "job", "scheduler")
}
