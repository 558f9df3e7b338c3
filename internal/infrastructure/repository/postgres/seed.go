package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the tournament player pool, fixture table and default
// rule set into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM fixtures`); err != nil {
		return fmt.Errorf("count fixtures for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertPlayers(ctx, tx, memory.SeedPlayers()); err != nil {
		return fmt.Errorf("seed players: %w", err)
	}

	for _, f := range memory.SeedFixtures() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO fixtures (match_id, series_id, series_name, round, stage, home_country, away_country, start_at, venue)
VALUES (:match_id, :series_id, :series_name, :round, :stage, :home_country, :away_country, :start_at, :venue)
ON CONFLICT (match_id) DO NOTHING`, map[string]any{
			"match_id":     f.MatchID,
			"series_id":    f.SeriesID,
			"series_name":  f.SeriesName,
			"round":        f.Round,
			"stage":        string(f.Stage),
			"home_country": f.HomeCountry,
			"away_country": f.AwayCountry,
			"start_at":     f.StartAt.UTC(),
			"venue":        f.Venue,
		})
		if err != nil {
			return fmt.Errorf("bind seed fixture %s query: %w", f.MatchID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed fixture %s: %w", f.MatchID, err)
		}
	}

	rules := ruleset.Default()
	payload, err := encodeJSON(rules)
	if err != nil {
		return err
	}
	sqlQuery, args, err := sqlx.Named(`
INSERT INTO rulesets (name, version, rules)
VALUES (:name, :version, :rules)
ON CONFLICT (name) DO NOTHING`, map[string]any{
		"name":    rules.Name,
		"version": rules.Version,
		"rules":   payload,
	})
	if err != nil {
		return fmt.Errorf("bind seed rule set query: %w", err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("seed rule set %s: %w", rules.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
