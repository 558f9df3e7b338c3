package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/points"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/syncattempt"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
)

func TestMatchPointsUpsertSkipsIdenticalContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchPointsRepository()
	snapshot := matchpoints.Snapshot{
		MatchID:     "m-1",
		RuleSetName: "t20",
		Points:      []points.PlayerPoints{{Key: "virat kohli", Name: "Virat Kohli", Batting: 64, Total: 64}},
		PlayingXI:   []string{"virat kohli"},
		ComputedAt:  time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC),
	}
	if err := snapshot.Seal(); err != nil {
		t.Fatalf("seal: %v", err)
	}

	wrote, err := repo.Upsert(ctx, snapshot)
	if err != nil || !wrote {
		t.Fatalf("unexpected first upsert: wrote=%v err=%v", wrote, err)
	}
	first, _ := repo.Raw("m-1", "t20")

	again := snapshot
	again.ComputedAt = snapshot.ComputedAt.Add(time.Hour)
	wrote, err = repo.Upsert(ctx, again)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if wrote {
		t.Fatalf("identical content must not be rewritten")
	}
	second, _ := repo.Raw("m-1", "t20")
	if !bytes.Equal(first, second) {
		t.Fatalf("stored snapshot changed on identical upsert")
	}

	got, ok, err := repo.Get(ctx, "m-1", "t20")
	if err != nil || !ok {
		t.Fatalf("get snapshot: ok=%v err=%v", ok, err)
	}
	if !got.ComputedAt.Equal(snapshot.ComputedAt) {
		t.Fatalf("unexpected computed at: got=%s want=%s", got.ComputedAt, snapshot.ComputedAt)
	}
}

func TestSubmissionCommitIsAtomicWithTeamVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teams := NewTeamRepository()
	subs := NewSubmissionRepository(teams)

	tm := team.Team{ID: "team-1", UserID: "u-1", Phase: team.PhaseGroup, TransferLimit: 60, PlayerIDs: []string{"p1"}}
	sub := submission.Submission{ID: "s-1", UserID: "u-1", TeamID: "team-1", MatchID: "m-1", PlayerIDs: []string{"p1"}, Source: submission.SourceManual}

	if err := subs.Commit(ctx, sub, tm, 0); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	stored, _, _ := teams.GetByUserID(ctx, "u-1")
	if stored.Version != 1 {
		t.Fatalf("unexpected version: got=%d want=1", stored.Version)
	}

	sub2 := sub
	sub2.ID, sub2.MatchID = "s-2", "m-2"
	if err := subs.Commit(ctx, sub2, tm, 0); !errors.Is(err, team.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if _, exists, _ := subs.Get(ctx, "u-1", "m-2"); exists {
		t.Fatalf("submission must not be stored when the team swap fails")
	}

	if err := subs.Commit(ctx, sub, stored, stored.Version); !errors.Is(err, submission.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	after, _, _ := teams.GetByUserID(ctx, "u-1")
	if after.Version != 1 {
		t.Fatalf("team must stay untouched on duplicate: version=%d", after.Version)
	}
}

func TestInsertManySkipsExisting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	subs := NewSubmissionRepository(NewTeamRepository())
	base := submission.Submission{UserID: "u-1", TeamID: "team-1", PlayerIDs: []string{"p1"}, Source: submission.SourceAuto}

	first := base
	first.ID, first.MatchID = "s-1", "m-1"
	if _, err := subs.InsertMany(ctx, []submission.Submission{first}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	second := base
	second.ID, second.MatchID = "s-2", "m-2"
	dup := first
	dup.ID = "s-3"
	inserted, err := subs.InsertMany(ctx, []submission.Submission{dup, second})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(inserted) != 1 || inserted[0].ID != "s-2" {
		t.Fatalf("unexpected inserted rows: %+v", inserted)
	}
}

func TestAdvancePointerOnlyMovesForward(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teams := NewTeamRepository()
	if err := teams.Update(ctx, team.Team{ID: "team-1", UserID: "u-1", Phase: team.PhaseGroup}, 0); err != nil {
		t.Fatalf("create team: %v", err)
	}

	later := time.Date(2026, 2, 20, 13, 30, 0, 0, time.UTC)
	earlier := later.AddDate(0, 0, -6)
	if err := teams.AdvancePointer(ctx, "team-1", "m-2", later); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := teams.AdvancePointer(ctx, "team-1", "m-1", earlier); err != nil {
		t.Fatalf("advance: %v", err)
	}
	got, _, _ := teams.GetByUserID(ctx, "u-1")
	if got.LastSubmittedMatchID != "m-2" {
		t.Fatalf("unexpected pointer: got=%s want=m-2", got.LastSubmittedMatchID)
	}
}

func TestAdvancePointerInvalidatesStaleUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teams := NewTeamRepository()
	if err := teams.Update(ctx, team.Team{ID: "team-1", UserID: "u-1", Phase: team.PhaseGroup}, 0); err != nil {
		t.Fatalf("create team: %v", err)
	}
	stale, _, _ := teams.GetByUserID(ctx, "u-1")

	startAt := time.Date(2026, 2, 20, 13, 30, 0, 0, time.UTC)
	if err := teams.AdvancePointer(ctx, "team-1", "m-2", startAt); err != nil {
		t.Fatalf("advance: %v", err)
	}
	advanced, _, _ := teams.GetByUserID(ctx, "u-1")
	if advanced.Version != stale.Version+1 {
		t.Fatalf("unexpected version: got=%d want=%d", advanced.Version, stale.Version+1)
	}
	if err := teams.Update(ctx, stale, stale.Version); !errors.Is(err, team.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	if err := teams.AdvancePointer(ctx, "team-1", "m-1", startAt.AddDate(0, 0, -6)); err != nil {
		t.Fatalf("advance: %v", err)
	}
	unchanged, _, _ := teams.GetByUserID(ctx, "u-1")
	if unchanged.Version != advanced.Version {
		t.Fatalf("backward advance must not bump version: got=%d want=%d", unchanged.Version, advanced.Version)
	}
}

func TestSyncAttemptCompleteOnlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	attempts := NewSyncAttemptRepository()
	at := time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)

	if err := attempts.Complete(ctx, "m-1", 0, syncattempt.StatusSucceeded, "", at); err == nil {
		t.Fatalf("expected error completing an unclaimed attempt")
	}

	claimed, err := attempts.Claim(ctx, syncattempt.Attempt{MatchID: "m-1", Offset: 0, Status: syncattempt.StatusRunning, AttemptedAt: at})
	if err != nil || !claimed {
		t.Fatalf("claim: claimed=%v err=%v", claimed, err)
	}
	if err := attempts.Complete(ctx, "m-1", 0, syncattempt.StatusFailed, "scorecard unavailable", at.Add(time.Minute)); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := attempts.Complete(ctx, "m-1", 0, syncattempt.StatusSucceeded, "", at.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected error completing a finished attempt")
	}
}
