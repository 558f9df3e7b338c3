package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	ID                   int64          `db:"id"`
	PublicID             string         `db:"public_id"`
	UserID               string         `db:"user_id"`
	Name                 string         `db:"name"`
	PlayerIDs            pq.StringArray `db:"player_ids"`
	CaptainID            string         `db:"captain_id"`
	ViceCaptainID        string         `db:"vice_captain_id"`
	SuperSubID           string         `db:"super_sub_id"`
	Phase                string         `db:"phase"`
	LockedInLeague       bool           `db:"locked_in_league"`
	TransfersUsed        int            `db:"transfers_used"`
	TransferLimit        int            `db:"transfer_limit"`
	Ledger               []byte         `db:"transfer_ledger"`
	FinalResetApplied    bool           `db:"final_reset_applied"`
	LastSubmittedMatchID string         `db:"last_submitted_match_id"`
	LastSubmittedMatchAt sql.NullTime   `db:"last_submitted_match_at"`
	Version              int64          `db:"version"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID             string         `db:"public_id"`
	UserID               string         `db:"user_id"`
	Name                 string         `db:"name"`
	PlayerIDs            pq.StringArray `db:"player_ids"`
	CaptainID            string         `db:"captain_id"`
	ViceCaptainID        string         `db:"vice_captain_id"`
	SuperSubID           string         `db:"super_sub_id"`
	Phase                string         `db:"phase"`
	LockedInLeague       bool           `db:"locked_in_league"`
	TransfersUsed        int            `db:"transfers_used"`
	TransferLimit        int            `db:"transfer_limit"`
	Ledger               string         `db:"transfer_ledger"`
	FinalResetApplied    bool           `db:"final_reset_applied"`
	LastSubmittedMatchID string         `db:"last_submitted_match_id"`
	LastSubmittedMatchAt sql.NullTime   `db:"last_submitted_match_at"`
	Version              int64          `db:"version"`
	CreatedAt            time.Time      `db:"created_at"`
}
