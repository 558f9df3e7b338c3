package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/points"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type MatchPointsRepository struct {
	db *sqlx.DB
}

var matchPointsSelectColumns = []string{
	"match_id",
	"ruleset_name",
	"ruleset_version",
	"points",
	"playing_xi",
	"substitutes",
	"warnings",
	"content_hash",
	"computed_at",
}

func NewMatchPointsRepository(db *sqlx.DB) *MatchPointsRepository {
	return &MatchPointsRepository{db: db}
}

// Upsert leaves the row untouched, computed_at included, when the content hash is unchanged.
func (r *MatchPointsRepository) Upsert(ctx context.Context, snapshot matchpoints.Snapshot) (bool, error) {
	if snapshot.ContentHash == "" {
		if err := snapshot.Seal(); err != nil {
			return false, err
		}
	}
	payload, err := encodeJSON(pointsOrEmpty(snapshot.Points))
	if err != nil {
		return false, err
	}

	model := matchPointsInsertModel{
		MatchID:        snapshot.MatchID,
		RuleSetName:    snapshot.RuleSetName,
		RuleSetVersion: snapshot.RuleSetVersion,
		Points:         payload,
		PlayingXI:      stringArray(snapshot.PlayingXI),
		Substitutes:    stringArray(snapshot.Substitutes),
		Warnings:       stringArray(snapshot.Warnings),
		ContentHash:    snapshot.ContentHash,
		ComputedAt:     snapshot.ComputedAt.UTC(),
	}
	query, args, err := qb.InsertModel("match_points", model, `ON CONFLICT (match_id, ruleset_name)
DO UPDATE SET
    ruleset_version = EXCLUDED.ruleset_version,
    points = EXCLUDED.points,
    playing_xi = EXCLUDED.playing_xi,
    substitutes = EXCLUDED.substitutes,
    warnings = EXCLUDED.warnings,
    content_hash = EXCLUDED.content_hash,
    computed_at = EXCLUDED.computed_at
WHERE match_points.content_hash <> EXCLUDED.content_hash`)
	if err != nil {
		return false, fmt.Errorf("build upsert match points query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("upsert match points match=%s: %w", snapshot.MatchID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read upsert match points result: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchPointsRepository) Get(ctx context.Context, matchID, ruleSetName string) (matchpoints.Snapshot, bool, error) {
	query, args, err := qb.Select(matchPointsSelectColumns...).From("match_points").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("ruleset_name", ruleSetName),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return matchpoints.Snapshot{}, false, fmt.Errorf("build select match points query: %w", err)
	}

	var row matchPointsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchpoints.Snapshot{}, false, nil
		}
		return matchpoints.Snapshot{}, false, fmt.Errorf("get match points: %w", err)
	}
	snapshot, err := snapshotFromRow(row)
	if err != nil {
		return matchpoints.Snapshot{}, false, err
	}
	return snapshot, true, nil
}

func (r *MatchPointsRepository) ListByRuleSet(ctx context.Context, ruleSetName string) ([]matchpoints.Snapshot, error) {
	return r.list(ctx, "list match points by rule set", qb.Eq("ruleset_name", ruleSetName))
}

func (r *MatchPointsRepository) ListByMatches(ctx context.Context, ruleSetName string, matchIDs []string) ([]matchpoints.Snapshot, error) {
	if len(matchIDs) == 0 {
		return []matchpoints.Snapshot{}, nil
	}
	return r.list(ctx, "list match points by matches",
		qb.Eq("ruleset_name", ruleSetName),
		qb.InStrings("match_id", matchIDs),
	)
}

func (r *MatchPointsRepository) list(ctx context.Context, label string, conditions ...qb.Condition) ([]matchpoints.Snapshot, error) {
	query, args, err := qb.Select(matchPointsSelectColumns...).From("match_points").
		Where(conditions...).
		OrderBy("match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", label, err)
	}

	var rows []matchPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	out := make([]matchpoints.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshot, err := snapshotFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func snapshotFromRow(row matchPointsTableModel) (matchpoints.Snapshot, error) {
	var items []points.PlayerPoints
	if err := decodeJSON(row.Points, &items); err != nil {
		return matchpoints.Snapshot{}, fmt.Errorf("match points match=%s: %w", row.MatchID, err)
	}
	return matchpoints.Snapshot{
		MatchID:        row.MatchID,
		RuleSetName:    row.RuleSetName,
		RuleSetVersion: row.RuleSetVersion,
		Points:         items,
		PlayingXI:      []string(row.PlayingXI),
		Substitutes:    []string(row.Substitutes),
		Warnings:       []string(row.Warnings),
		ContentHash:    row.ContentHash,
		ComputedAt:     row.ComputedAt,
	}, nil
}

func pointsOrEmpty(items []points.PlayerPoints) []points.PlayerPoints {
	if items == nil {
		return []points.PlayerPoints{}
	}
	return items
}
