package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/syncattempt"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type SyncAttemptRepository struct {
	db *sqlx.DB
}

type syncAttemptTableModel struct {
	MatchID     string       `db:"match_id"`
	Offset      int          `db:"offset_index"`
	Status      string       `db:"status"`
	AttemptedAt time.Time    `db:"attempted_at"`
	FinishedAt  sql.NullTime `db:"finished_at"`
	Error       string       `db:"error"`
}

func NewSyncAttemptRepository(db *sqlx.DB) *SyncAttemptRepository {
	return &SyncAttemptRepository{db: db}
}

// Claim relies on the (match_id, offset_index) primary key; a lost race inserts nothing.
func (r *SyncAttemptRepository) Claim(ctx context.Context, attempt syncattempt.Attempt) (bool, error) {
	query, args, err := qb.InsertModel("sync_attempts", syncAttemptTableModel{
		MatchID:     attempt.MatchID,
		Offset:      attempt.Offset,
		Status:      string(attempt.Status),
		AttemptedAt: attempt.AttemptedAt.UTC(),
		FinishedAt:  nullTime(attempt.FinishedAt),
		Error:       attempt.Error,
	}, `ON CONFLICT (match_id, offset_index) DO NOTHING`)
	if err != nil {
		return false, fmt.Errorf("build claim sync attempt query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("claim sync attempt match=%s offset=%d: %w", attempt.MatchID, attempt.Offset, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read claim sync attempt result: %w", err)
	}
	return affected == 1, nil
}

func (r *SyncAttemptRepository) Complete(ctx context.Context, matchID string, offset int, status syncattempt.Status, errMsg string, finishedAt time.Time) error {
	query, args, err := qb.Update("sync_attempts").
		Set("status", string(status)).
		Set("error", errMsg).
		Set("finished_at", finishedAt.UTC()).
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("offset_index", offset),
			qb.IsNull("finished_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build complete sync attempt query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("complete sync attempt match=%s offset=%d: %w", matchID, offset, err)
	}
	return requireOneRow(result, fmt.Errorf("sync attempt match=%s offset=%d is not claimed or already finished", matchID, offset))
}

func (r *SyncAttemptRepository) ListByMatch(ctx context.Context, matchID string) ([]syncattempt.Attempt, error) {
	query, args, err := qb.Select("match_id", "offset_index", "status", "attempted_at", "finished_at", "error").
		From("sync_attempts").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("offset_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sync attempts query: %w", err)
	}

	var rows []syncAttemptTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sync attempts: %w", err)
	}

	out := make([]syncattempt.Attempt, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncattempt.Attempt{
			MatchID:     row.MatchID,
			Offset:      row.Offset,
			Status:      syncattempt.Status(row.Status),
			AttemptedAt: row.AttemptedAt,
			FinishedAt:  timeOrZero(row.FinishedAt),
			Error:       row.Error,
		})
	}
	return out, nil
}
