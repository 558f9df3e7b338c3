package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

const (
	fixtureListKey   = "fixture:list"
	playerListKey    = "player:list"
	ruleSetKeyPrefix = "ruleset:"
)

// FixtureRepository serves every read from one cached copy of the fixture table.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) GetByID(ctx context.Context, matchID string) (fixture.Fixture, bool, error) {
	items, err := r.List(ctx)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	for _, item := range items {
		if item.MatchID == matchID {
			return item, true, nil
		}
	}
	return fixture.Fixture{}, false, nil
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	v, err := r.cache.GetOrLoad(ctx, fixtureListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

func (r *FixtureRepository) ListStartedBy(ctx context.Context, at time.Time) ([]fixture.Fixture, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if !item.StartAt.After(at) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *FixtureRepository) ListStartingBetween(ctx context.Context, since, until time.Time) ([]fixture.Fixture, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.StartAt.Before(since) {
			continue
		}
		if !until.IsZero() && !item.StartAt.Before(until) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

// GetByIDs returns players in request order; unknown ids are dropped.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	items, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]player.Player, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PlayerRepository) UpdateTotals(ctx context.Context, totals map[string]float64) error {
	defer r.cache.Delete(ctx, playerListKey)
	return r.next.UpdateTotals(ctx, totals)
}

type RuleSetRepository struct {
	next  ruleset.Repository
	cache *basecache.Store
}

func NewRuleSetRepository(next ruleset.Repository, cache *basecache.Store) *RuleSetRepository {
	return &RuleSetRepository{next: next, cache: cache}
}

func (r *RuleSetRepository) GetActive(ctx context.Context, name string) (ruleset.RuleSet, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, ruleSetKeyPrefix+name, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx, name)
		if err != nil {
			return nil, err
		}
		return cachedRuleSet{value: item, exists: exists}, nil
	})
	if err != nil {
		return ruleset.RuleSet{}, false, err
	}

	cached, _ := v.(cachedRuleSet)
	return cached.value, cached.exists, nil
}

func (r *RuleSetRepository) Create(ctx context.Context, rules ruleset.RuleSet) error {
	defer r.cache.Delete(ctx, ruleSetKeyPrefix+rules.Name)
	return r.next.Create(ctx, rules)
}

type cachedRuleSet struct {
	value  ruleset.RuleSet
	exists bool
}
