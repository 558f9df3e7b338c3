package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = []string{
	"id",
	"public_id",
	"user_id",
	"name",
	"player_ids",
	"captain_id",
	"vice_captain_id",
	"super_sub_id",
	"phase",
	"locked_in_league",
	"transfers_used",
	"transfer_limit",
	"transfer_ledger",
	"final_reset_applied",
	"last_submitted_match_id",
	"last_submitted_match_at",
	"version",
	"created_at",
	"updated_at",
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByUserID(ctx context.Context, userID string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by user query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by user: %w", err)
	}

	item, err := teamFromRow(row)
	if err != nil {
		return team.Team{}, false, err
	}
	return item, true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		item, err := teamFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TeamRepository) Update(ctx context.Context, t team.Team, expectedVersion int64) error {
	return swapTeam(ctx, r.db, t, expectedVersion)
}

func (r *TeamRepository) AdvancePointer(ctx context.Context, teamID, matchID string, matchStartAt time.Time) error {
	query, args, err := qb.Update("fantasy_teams").
		Set("last_submitted_match_id", matchID).
		Set("last_submitted_match_at", matchStartAt.UTC()).
		SetExpr("version", "version + 1").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", teamID),
			qb.Expr("(last_submitted_match_at IS NULL OR last_submitted_match_at < ?)", matchStartAt.UTC()),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build advance team pointer query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("advance team pointer team=%s: %w", teamID, err)
	}
	return nil
}

// swapTeam stores t with Version expectedVersion+1. Zero inserts; otherwise
// the row must still carry expectedVersion.
func swapTeam(ctx context.Context, exec sqlx.ExtContext, t team.Team, expectedVersion int64) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}
	ledger, err := encodeJSON(ledgerOrEmpty(t.Ledger))
	if err != nil {
		return err
	}

	if expectedVersion == 0 {
		model := teamInsertModel{
			PublicID:             t.ID,
			UserID:               t.UserID,
			Name:                 t.Name,
			PlayerIDs:            stringArray(t.PlayerIDs),
			CaptainID:            t.CaptainID,
			ViceCaptainID:        t.ViceCaptainID,
			SuperSubID:           t.SuperSubID,
			Phase:                string(t.Phase),
			LockedInLeague:       t.LockedInLeague,
			TransfersUsed:        t.TransfersUsed,
			TransferLimit:        t.TransferLimit,
			Ledger:               ledger,
			FinalResetApplied:    t.FinalResetApplied,
			LastSubmittedMatchID: t.LastSubmittedMatchID,
			LastSubmittedMatchAt: nullTime(t.LastSubmittedMatchAt),
			Version:              1,
			CreatedAt:            createdAtOrNow(t.CreatedAt),
		}
		query, args, err := qb.InsertModel("fantasy_teams", model, `ON CONFLICT DO NOTHING`)
		if err != nil {
			return fmt.Errorf("build insert team query: %w", err)
		}
		result, err := exec.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert team user=%s: %w", t.UserID, err)
		}
		return requireOneRow(result, team.ErrVersionConflict)
	}

	query, args, err := qb.Update("fantasy_teams").
		Set("name", t.Name).
		Set("player_ids", stringArray(t.PlayerIDs)).
		Set("captain_id", t.CaptainID).
		Set("vice_captain_id", t.ViceCaptainID).
		Set("super_sub_id", t.SuperSubID).
		Set("phase", string(t.Phase)).
		Set("locked_in_league", t.LockedInLeague).
		Set("transfers_used", t.TransfersUsed).
		Set("transfer_limit", t.TransferLimit).
		Set("transfer_ledger", ledger).
		Set("final_reset_applied", t.FinalResetApplied).
		Set("last_submitted_match_id", t.LastSubmittedMatchID).
		Set("last_submitted_match_at", nullTime(t.LastSubmittedMatchAt)).
		Set("version", expectedVersion+1).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", t.ID),
			qb.Eq("version", expectedVersion),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team=%s: %w", t.ID, err)
	}
	return requireOneRow(result, team.ErrVersionConflict)
}

func teamFromRow(row teamTableModel) (team.Team, error) {
	var ledger []team.LedgerEntry
	if err := decodeJSON(row.Ledger, &ledger); err != nil {
		return team.Team{}, fmt.Errorf("team=%s ledger: %w", row.PublicID, err)
	}
	if len(ledger) == 0 {
		ledger = nil
	}

	return team.Team{
		ID:                   row.PublicID,
		UserID:               row.UserID,
		Name:                 row.Name,
		PlayerIDs:            []string(row.PlayerIDs),
		CaptainID:            row.CaptainID,
		ViceCaptainID:        row.ViceCaptainID,
		SuperSubID:           row.SuperSubID,
		Phase:                team.Phase(row.Phase),
		LockedInLeague:       row.LockedInLeague,
		TransfersUsed:        row.TransfersUsed,
		TransferLimit:        row.TransferLimit,
		Ledger:               ledger,
		FinalResetApplied:    row.FinalResetApplied,
		LastSubmittedMatchID: row.LastSubmittedMatchID,
		LastSubmittedMatchAt: timeOrZero(row.LastSubmittedMatchAt),
		Version:              row.Version,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func ledgerOrEmpty(entries []team.LedgerEntry) []team.LedgerEntry {
	if entries == nil {
		return []team.LedgerEntry{}
	}
	return entries
}
