package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

type RuleSetRepository struct {
	mu    sync.RWMutex
	items map[string]ruleset.RuleSet
}

func NewRuleSetRepository(initial ...ruleset.RuleSet) *RuleSetRepository {
	r := &RuleSetRepository{items: make(map[string]ruleset.RuleSet, len(initial))}
	for _, item := range initial {
		r.items[item.Name] = item
	}
	return r
}

func (r *RuleSetRepository) GetActive(_ context.Context, name string) (ruleset.RuleSet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	return item, ok, nil
}

func (r *RuleSetRepository) Create(_ context.Context, rules ruleset.RuleSet) error {
	if err := rules.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[rules.Name]; exists {
		return ruleset.ErrAlreadyExists
	}
	r.items[rules.Name] = rules
	return nil
}
