package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/syncattempt"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	syncattemptmock "github.com/riskibarqy/fantasy-cricket/internal/mocks/domain/syncattempt"
)

type countingSyncer struct {
	mu      sync.Mutex
	calls   map[string]int
	outcome MatchSyncOutcome
	err     error
}

func (s *countingSyncer) SyncMatch(_ context.Context, matchID string) (MatchSyncOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[matchID]++
	return s.outcome, s.err
}

type countingResolver struct {
	mu      sync.Mutex
	matches []string
}

func (r *countingResolver) ResolveMatch(_ context.Context, matchID string) (ResolveMatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, matchID)
	return ResolveMatchResult{}, nil
}

func schedulerFixtures(start time.Time) *memory.FixtureRepository {
	return memory.NewFixtureRepository([]fixture.Fixture{
		{MatchID: "m1", Round: 1, Stage: fixture.StageGroup, HomeCountry: "India", AwayCountry: "Australia", StartAt: start},
		{MatchID: "m-future", Round: 2, Stage: fixture.StageGroup, HomeCountry: "India", AwayCountry: "Australia", StartAt: start.AddDate(0, 0, 7)},
	})
}

func TestSyncSchedulerService_RunsEachOffsetAtMostOnce(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 14, 13, 30, 0, 0, time.UTC)
	attempts := memory.NewSyncAttemptRepository()
	syncer := &countingSyncer{outcome: OutcomeUpdated}
	resolver := &countingResolver{}
	service := NewSyncSchedulerService(
		schedulerFixtures(start),
		attempts,
		syncer,
		resolver,
		SyncSchedulerConfig{MatchDuration: 4 * time.Hour},
		nil,
	)

	end := start.Add(4 * time.Hour)
	service.now = func() time.Time { return end.Add(35 * time.Minute) }

	first, err := service.Run(t.Context())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Due != 1 || first.Claimed != 1 || first.Succeeded != 1 {
		t.Fatalf("unexpected first run: %+v", first)
	}

	service.now = func() time.Time { return end.Add(45 * time.Minute) }
	second, err := service.Run(t.Context())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Due != 1 || second.Claimed != 0 {
		t.Fatalf("offset must not be claimed twice: %+v", second)
	}

	service.now = func() time.Time { return end.Add(90 * time.Minute) }
	idle, _ := service.Run(t.Context())
	if idle.Due != 0 {
		t.Fatalf("nothing should be due between offsets: %+v", idle)
	}

	service.now = func() time.Time { return end.Add(3*time.Hour + 10*time.Minute) }
	if _, err := service.Run(t.Context()); err != nil {
		t.Fatalf("late run: %v", err)
	}

	if syncer.calls["m1"] != 2 {
		t.Fatalf("unexpected sync calls: got=%d want=2", syncer.calls["m1"])
	}
	if len(resolver.matches) != 2 {
		t.Fatalf("expected super-sub resolution after each successful sync: %v", resolver.matches)
	}

	recorded, _ := attempts.ListByMatch(t.Context(), "m1")
	if len(recorded) != 2 || recorded[0].Status != syncattempt.StatusSucceeded || recorded[1].Status != syncattempt.StatusSucceeded {
		t.Fatalf("unexpected attempts: %+v", recorded)
	}
}

func TestSyncSchedulerService_RecordsFailures(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 14, 13, 30, 0, 0, time.UTC)
	attempts := memory.NewSyncAttemptRepository()
	resolver := &countingResolver{}
	service := NewSyncSchedulerService(
		schedulerFixtures(start),
		attempts,
		&countingSyncer{err: errors.New("provider down")},
		resolver,
		SyncSchedulerConfig{MatchDuration: 4 * time.Hour},
		nil,
	)
	service.now = func() time.Time { return start.Add(4*time.Hour + 31*time.Minute) }

	result, err := service.Run(t.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Failed != 1 || result.Succeeded != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(resolver.matches) != 0 {
		t.Fatalf("failed sync must not trigger resolution")
	}
	recorded, _ := attempts.ListByMatch(t.Context(), "m1")
	if len(recorded) != 1 || recorded[0].Status != syncattempt.StatusFailed || recorded[0].Error != "provider down" {
		t.Fatalf("unexpected attempts: %+v", recorded)
	}
}

func TestSyncSchedulerService_LostClaimSkipsSyncUsingMockery(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 14, 13, 30, 0, 0, time.UTC)
	attemptRepo := syncattemptmock.NewRepository(t)
	attemptRepo.
		On("Claim", mock.Anything, mock.MatchedBy(func(a syncattempt.Attempt) bool {
			return a.MatchID == "m1" && a.Offset == 0 && a.Status == syncattempt.StatusRunning
		})).
		Return(false, nil).
		Once()

	syncer := &countingSyncer{outcome: OutcomeUpdated}
	service := NewSyncSchedulerService(schedulerFixtures(start), attemptRepo, syncer, nil, SyncSchedulerConfig{MatchDuration: 4 * time.Hour}, nil)
	service.now = func() time.Time { return start.Add(4*time.Hour + 30*time.Minute) }

	result, err := service.Run(t.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Claimed != 0 || len(syncer.calls) != 0 {
		t.Fatalf("lost claim must not sync: %+v calls=%v", result, syncer.calls)
	}
}
