package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type RuleSetRepository struct {
	db *sqlx.DB
}

type ruleSetInsertModel struct {
	Name    string `db:"name"`
	Version int    `db:"version"`
	Rules   string `db:"rules"`
}

func NewRuleSetRepository(db *sqlx.DB) *RuleSetRepository {
	return &RuleSetRepository{db: db}
}

func (r *RuleSetRepository) GetActive(ctx context.Context, name string) (ruleset.RuleSet, bool, error) {
	query, args, err := qb.Select("rules", "created_at").From("rulesets").
		Where(qb.Eq("name", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return ruleset.RuleSet{}, false, fmt.Errorf("build select rule set query: %w", err)
	}

	var row struct {
		Rules     []byte    `db:"rules"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ruleset.RuleSet{}, false, nil
		}
		return ruleset.RuleSet{}, false, fmt.Errorf("get rule set: %w", err)
	}

	var out ruleset.RuleSet
	if err := decodeJSON(row.Rules, &out); err != nil {
		return ruleset.RuleSet{}, false, fmt.Errorf("rule set %s: %w", name, err)
	}
	out.CreatedAt = row.CreatedAt
	return out, true, nil
}

func (r *RuleSetRepository) Create(ctx context.Context, rules ruleset.RuleSet) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	payload, err := encodeJSON(rules)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("rulesets", ruleSetInsertModel{
		Name:    rules.Name,
		Version: rules.Version,
		Rules:   payload,
	}, `ON CONFLICT (name) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build insert rule set query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert rule set %s: %w", rules.Name, err)
	}
	return requireOneRow(result, fmt.Errorf("%w: %s", ruleset.ErrAlreadyExists, rules.Name))
}
