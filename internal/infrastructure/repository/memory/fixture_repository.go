package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures []fixture.Fixture
	index    map[string]int
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{}
	r.Replace(fixtures)
	return r
}

// Replace swaps the whole fixture list, keeping it ordered by start time.
func (r *FixtureRepository) Replace(fixtures []fixture.Fixture) {
	items := append([]fixture.Fixture(nil), fixtures...)
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StartAt.Equal(items[j].StartAt) {
			return items[i].StartAt.Before(items[j].StartAt)
		}
		return items[i].MatchID < items[j].MatchID
	})
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item.MatchID] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixtures = items
	r.index = index
}

func (r *FixtureRepository) GetByID(_ context.Context, matchID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.index[matchID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}
	return r.fixtures[idx], true, nil
}

func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	return r.filter(func(fixture.Fixture) bool { return true }), nil
}

func (r *FixtureRepository) ListStartedBy(_ context.Context, at time.Time) ([]fixture.Fixture, error) {
	return r.filter(func(f fixture.Fixture) bool { return !f.StartAt.After(at) }), nil
}

func (r *FixtureRepository) ListStartingBetween(_ context.Context, since, until time.Time) ([]fixture.Fixture, error) {
	return r.filter(func(f fixture.Fixture) bool {
		if f.StartAt.Before(since) {
			return false
		}
		return until.IsZero() || f.StartAt.Before(until)
	}), nil
}

func (r *FixtureRepository) filter(keep func(fixture.Fixture) bool) []fixture.Fixture {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, item := range r.fixtures {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
