package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

var fixtureSelectColumns = []string{
	"match_id",
	"series_id",
	"series_name",
	"round",
	"stage",
	"home_country",
	"away_country",
	"start_at",
	"venue",
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, matchID string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(qb.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture by id query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}
	return fixtureFromRow(row), true, nil
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	return r.list(ctx, "list fixtures")
}

func (r *FixtureRepository) ListStartedBy(ctx context.Context, at time.Time) ([]fixture.Fixture, error) {
	return r.list(ctx, "list started fixtures", qb.Lte("start_at", at.UTC()))
}

func (r *FixtureRepository) ListStartingBetween(ctx context.Context, since, until time.Time) ([]fixture.Fixture, error) {
	conditions := []qb.Condition{qb.Gte("start_at", since.UTC())}
	if !until.IsZero() {
		conditions = append(conditions, qb.Lt("start_at", until.UTC()))
	}
	return r.list(ctx, "list fixtures in range", conditions...)
}

func (r *FixtureRepository) list(ctx context.Context, label string, conditions ...qb.Condition) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(conditions...).
		OrderBy("start_at ASC", "match_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", label, err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}
	return out, nil
}

// Upsert stores the fixture table; existing matches take the new schedule.
func (r *FixtureRepository) Upsert(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]fixtureTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, fixtureTableModel{
			MatchID:     item.MatchID,
			SeriesID:    item.SeriesID,
			SeriesName:  item.SeriesName,
			Round:       item.Round,
			Stage:       string(fixture.NormalizeStage(string(item.Stage))),
			HomeCountry: item.HomeCountry,
			AwayCountry: item.AwayCountry,
			StartAt:     item.StartAt.UTC(),
			Venue:       item.Venue,
		})
	}

	query, args, err := qb.InsertModels("fixtures", models, `ON CONFLICT (match_id)
DO UPDATE SET
    series_id = EXCLUDED.series_id,
    series_name = EXCLUDED.series_name,
    round = EXCLUDED.round,
    stage = EXCLUDED.stage,
    home_country = EXCLUDED.home_country,
    away_country = EXCLUDED.away_country,
    start_at = EXCLUDED.start_at,
    venue = EXCLUDED.venue,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert fixtures query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fixtures: %w", err)
	}
	return nil
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		MatchID:     row.MatchID,
		SeriesID:    row.SeriesID,
		SeriesName:  row.SeriesName,
		Round:       row.Round,
		Stage:       fixture.NormalizeStage(row.Stage),
		HomeCountry: row.HomeCountry,
		AwayCountry: row.AwayCountry,
		StartAt:     row.StartAt,
		Venue:       row.Venue,
	}
}
