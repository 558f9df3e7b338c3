package matchpoints

import "context"

type Repository interface {
	// Upsert replaces the stored row for (MatchID, RuleSetName) only when
	// ContentHash differs, and reports whether it wrote.
	Upsert(ctx context.Context, snapshot Snapshot) (bool, error)
	Get(ctx context.Context, matchID, ruleSetName string) (Snapshot, bool, error)
	ListByRuleSet(ctx context.Context, ruleSetName string) ([]Snapshot, error)
	ListByMatches(ctx context.Context, ruleSetName string, matchIDs []string) ([]Snapshot, error)
}
