package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	fixturemock "github.com/riskibarqy/fantasy-cricket/internal/mocks/domain/fixture"
	playermock "github.com/riskibarqy/fantasy-cricket/internal/mocks/domain/player"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

func TestFixtureRepository_LoadsTableOnce(t *testing.T) {
	t.Parallel()

	isCtx := mock.MatchedBy(func(v context.Context) bool { return v != nil })
	next := fixturemock.NewRepository(t)
	next.On("List", isCtx).Return(memory.SeedFixtures(), nil).Once()

	repo := NewFixtureRepository(next, basecache.NewStore(time.Minute))

	item, ok, err := repo.GetByID(t.Context(), "t20wc-2026-final")
	if err != nil || !ok || item.Stage != fixture.StageFinal {
		t.Fatalf("unexpected fixture: %+v ok=%v err=%v", item, ok, err)
	}

	started, err := repo.ListStartedBy(t.Context(), time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))
	if err != nil || len(started) != 1 {
		t.Fatalf("unexpected started fixtures: %+v err=%v", started, err)
	}

	ranged, err := repo.ListStartingBetween(t.Context(), time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), time.Time{})
	if err != nil || len(ranged) != 2 {
		t.Fatalf("unexpected fixtures in range: %+v err=%v", ranged, err)
	}
}

func TestPlayerRepository_UpdateTotalsInvalidates(t *testing.T) {
	t.Parallel()

	isCtx := mock.MatchedBy(func(v context.Context) bool { return v != nil })
	next := playermock.NewRepository(t)
	next.On("ListAll", isCtx).Return([]player.Player{{ID: "ind-02", Name: "Virat Kohli"}}, nil).Twice()
	next.On("UpdateTotals", isCtx, map[string]float64{"ind-02": 68}).Return(nil).Once()

	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	if _, err := repo.GetByIDs(t.Context(), []string{"ind-02", "missing"}); err != nil {
		t.Fatalf("first read: %v", err)
	}
	got, err := repo.GetByIDs(t.Context(), []string{"missing", "ind-02"})
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected cached read: %+v err=%v", got, err)
	}

	if err := repo.UpdateTotals(t.Context(), map[string]float64{"ind-02": 68}); err != nil {
		t.Fatalf("update totals: %v", err)
	}
	if _, err := repo.ListAll(t.Context()); err != nil {
		t.Fatalf("reload after update: %v", err)
	}
}

func TestRuleSetRepository_CachesMissUntilCreate(t *testing.T) {
	t.Parallel()

	repo := NewRuleSetRepository(memory.NewRuleSetRepository(), basecache.NewStore(time.Minute))
	if _, ok, err := repo.GetActive(t.Context(), ruleset.DefaultName); err != nil || ok {
		t.Fatalf("expected miss: ok=%v err=%v", ok, err)
	}
	if err := repo.Create(t.Context(), ruleset.Default()); err != nil {
		t.Fatalf("create rule set: %v", err)
	}
	got, ok, err := repo.GetActive(t.Context(), ruleset.DefaultName)
	if err != nil || !ok || got.Version != 1 {
		t.Fatalf("expected created rule set: %+v ok=%v err=%v", got, ok, err)
	}
}
