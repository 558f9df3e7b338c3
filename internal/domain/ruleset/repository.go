package ruleset

import "context"

// Repository stores rule sets. Create is insert-only; an existing name returns ErrAlreadyExists.
type Repository interface {
	GetActive(ctx context.Context, name string) (RuleSet, bool, error)
	Create(ctx context.Context, rules RuleSet) error
}
