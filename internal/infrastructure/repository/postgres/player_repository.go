package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"public_id",
	"name",
	"country",
	"role",
	"credit",
	"total_points",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}
	return playersFromRows(rows), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.InStrings("public_id", playerIDs)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}
	return playersFromRows(rows), nil
}

// UpdateTotals writes every total in one statement so a partial season recompute is never visible.
func (r *PlayerRepository) UpdateTotals(ctx context.Context, totals map[string]float64) error {
	if len(totals) == 0 {
		return nil
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	values := make([]float64, 0, len(ids))
	for _, id := range ids {
		values = append(values, totals[id])
	}

	const updateQuery = `
UPDATE players AS p
SET total_points = v.total_points,
    updated_at = NOW()
FROM UNNEST($1::text[], $2::double precision[]) AS v(public_id, total_points)
WHERE p.public_id = v.public_id`

	if _, err := r.db.ExecContext(ctx, updateQuery, pq.StringArray(ids), pq.Float64Array(values)); err != nil {
		return fmt.Errorf("update player totals: %w", err)
	}
	return nil
}

// insertPlayers stores players idempotently by public id in one statement.
func insertPlayers(ctx context.Context, exec sqlx.ExecerContext, items []player.Player) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]playerInsertModel, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate player %s: %w", item.ID, err)
		}
		models = append(models, playerInsertModel{
			PublicID: item.ID,
			Name:     item.Name,
			Country:  item.Country,
			Role:     string(item.Role),
			Credit:   item.Credit,
		})
	}

	query, args, err := qb.InsertModels("players", models, `ON CONFLICT (public_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build insert players query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert players: %w", err)
	}
	return nil
}

func playersFromRows(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:          row.PublicID,
			Name:        row.Name,
			Country:     row.Country,
			Role:        player.NormalizeRole(row.Role),
			Credit:      row.Credit,
			TotalPoints: row.TotalPoints,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return out
}
