package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

const submissionInsertBatchSize = 500

type SubmissionRepository struct {
	db *sqlx.DB
}

var submissionSelectColumns = []string{
	"id",
	"public_id",
	"user_id",
	"team_public_id",
	"match_id",
	"match_date",
	"match_start_at",
	"player_ids",
	"captain_id",
	"vice_captain_id",
	"super_sub_id",
	"source",
	"submitted_at",
	"effective",
	"created_at",
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Get(ctx context.Context, userID, matchID string) (submission.Submission, bool, error) {
	query, args, err := qb.Select(submissionSelectColumns...).From("team_submissions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return submission.Submission{}, false, fmt.Errorf("build select submission query: %w", err)
	}
	return r.getOne(ctx, "get submission", query, args)
}

func (r *SubmissionRepository) ListByMatch(ctx context.Context, matchID string) ([]submission.Submission, error) {
	query, args, err := qb.Select(submissionSelectColumns...).From("team_submissions").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select submissions by match query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select submissions by match: %w", err)
	}

	out := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		item, err := submissionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *SubmissionRepository) GetByMatchDate(ctx context.Context, userID, matchDate string) (submission.Submission, bool, error) {
	query, args, err := qb.Select(submissionSelectColumns...).From("team_submissions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_date", matchDate),
		).
		OrderBy("submitted_at ASC", "id ASC").
		Limit(1).
		ToSQL()
	if err != nil {
		return submission.Submission{}, false, fmt.Errorf("build select submission by date query: %w", err)
	}
	return r.getOne(ctx, "get submission by date", query, args)
}

func (r *SubmissionRepository) LatestBefore(ctx context.Context, userID string, before time.Time, sources ...submission.Source) (submission.Submission, bool, error) {
	conditions := []qb.Condition{
		qb.Eq("user_id", userID),
		qb.Lt("submitted_at", before.UTC()),
	}
	if len(sources) > 0 {
		values := make([]string, 0, len(sources))
		for _, source := range sources {
			values = append(values, string(source))
		}
		conditions = append(conditions, qb.InStrings("source", values))
	}

	query, args, err := qb.Select(submissionSelectColumns...).From("team_submissions").
		Where(conditions...).
		OrderBy("submitted_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return submission.Submission{}, false, fmt.Errorf("build select latest submission query: %w", err)
	}
	return r.getOne(ctx, "get latest submission", query, args)
}

func (r *SubmissionRepository) SuperSubUsedOn(ctx context.Context, userID, matchDate, excludeMatchID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1
    FROM team_submissions
    WHERE user_id = $1
      AND match_date = $2
      AND match_id <> $3
      AND super_sub_id <> ''
)`

	var used bool
	if err := r.db.GetContext(ctx, &used, query, userID, matchDate, excludeMatchID); err != nil {
		return false, fmt.Errorf("check super-sub usage user=%s date=%s: %w", userID, matchDate, err)
	}
	return used, nil
}

func (r *SubmissionRepository) Commit(ctx context.Context, sub submission.Submission, t team.Team, expectedVersion int64) error {
	model, err := submissionToInsertModel(sub)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for submission commit: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := swapTeam(ctx, tx, t, expectedVersion); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("team_submissions", model, "")
	if err != nil {
		return fmt.Errorf("build insert submission query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return submission.ErrDuplicate
		}
		return fmt.Errorf("insert submission user=%s match=%s: %w", sub.UserID, sub.MatchID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submission tx: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) InsertMany(ctx context.Context, subs []submission.Submission) ([]submission.Submission, error) {
	if len(subs) == 0 {
		return []submission.Submission{}, nil
	}

	byPublicID := make(map[string]submission.Submission, len(subs))
	models := make([]submissionInsertModel, 0, len(subs))
	for _, sub := range subs {
		model, err := submissionToInsertModel(sub)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
		byPublicID[sub.ID] = sub
	}

	inserted := make([]submission.Submission, 0, len(subs))
	for start := 0; start < len(models); start += submissionInsertBatchSize {
		end := min(start+submissionInsertBatchSize, len(models))
		query, args, err := qb.InsertModels("team_submissions", models[start:end], `ON CONFLICT (user_id, match_id) DO NOTHING
RETURNING public_id`)
		if err != nil {
			return nil, fmt.Errorf("build insert submissions query: %w", err)
		}

		var written []string
		if err := r.db.SelectContext(ctx, &written, query, args...); err != nil {
			return nil, fmt.Errorf("insert submissions: %w", err)
		}
		for _, publicID := range written {
			inserted = append(inserted, byPublicID[publicID].Clone())
		}
	}
	return inserted, nil
}

func (r *SubmissionRepository) AttachEffective(ctx context.Context, userID, matchID string, effective submission.Effective) error {
	payload, err := encodeJSON(effective)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("team_submissions").
		SetExpr("effective", "?::jsonb", payload).
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build attach effective roster query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("attach effective roster user=%s match=%s: %w", userID, matchID, err)
	}
	return requireOneRow(result, fmt.Errorf("submission user=%s match=%s not found", userID, matchID))
}

func (r *SubmissionRepository) getOne(ctx context.Context, label, query string, args []any) (submission.Submission, bool, error) {
	var row submissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return submission.Submission{}, false, nil
		}
		return submission.Submission{}, false, fmt.Errorf("%s: %w", label, err)
	}
	item, err := submissionFromRow(row)
	if err != nil {
		return submission.Submission{}, false, err
	}
	return item, true, nil
}

func submissionToInsertModel(sub submission.Submission) (submissionInsertModel, error) {
	if err := sub.Validate(); err != nil {
		return submissionInsertModel{}, fmt.Errorf("invalid submission: %w", err)
	}

	var effective sql.NullString
	if sub.Effective != nil {
		payload, err := encodeJSON(sub.Effective)
		if err != nil {
			return submissionInsertModel{}, err
		}
		effective = sql.NullString{String: payload, Valid: true}
	}

	return submissionInsertModel{
		PublicID:      sub.ID,
		UserID:        sub.UserID,
		TeamID:        sub.TeamID,
		MatchID:       sub.MatchID,
		MatchDate:     sub.MatchDate,
		MatchStartAt:  sub.MatchStartAt.UTC(),
		PlayerIDs:     stringArray(sub.PlayerIDs),
		CaptainID:     sub.CaptainID,
		ViceCaptainID: sub.ViceCaptainID,
		SuperSubID:    sub.SuperSubID,
		Source:        string(sub.Source),
		SubmittedAt:   sub.SubmittedAt.UTC(),
		Effective:     effective,
	}, nil
}

func submissionFromRow(row submissionTableModel) (submission.Submission, error) {
	out := submission.Submission{
		ID:            row.PublicID,
		UserID:        row.UserID,
		TeamID:        row.TeamID,
		MatchID:       row.MatchID,
		MatchDate:     row.MatchDate,
		MatchStartAt:  row.MatchStartAt,
		PlayerIDs:     []string(row.PlayerIDs),
		CaptainID:     row.CaptainID,
		ViceCaptainID: row.ViceCaptainID,
		SuperSubID:    row.SuperSubID,
		Source:        submission.Source(row.Source),
		SubmittedAt:   row.SubmittedAt,
	}
	if len(row.Effective) > 0 {
		var effective submission.Effective
		if err := decodeJSON(row.Effective, &effective); err != nil {
			return submission.Submission{}, fmt.Errorf("submission user=%s match=%s effective: %w", row.UserID, row.MatchID, err)
		}
		out.Effective = &effective
	}
	return out, nil
}
