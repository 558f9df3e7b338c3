package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type submissionTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	UserID        string         `db:"user_id"`
	TeamID        string         `db:"team_public_id"`
	MatchID       string         `db:"match_id"`
	MatchDate     string         `db:"match_date"`
	MatchStartAt  time.Time      `db:"match_start_at"`
	PlayerIDs     pq.StringArray `db:"player_ids"`
	CaptainID     string         `db:"captain_id"`
	ViceCaptainID string         `db:"vice_captain_id"`
	SuperSubID    string         `db:"super_sub_id"`
	Source        string         `db:"source"`
	SubmittedAt   time.Time      `db:"submitted_at"`
	Effective     []byte         `db:"effective"`
	CreatedAt     time.Time      `db:"created_at"`
}

type submissionInsertModel struct {
	PublicID      string         `db:"public_id"`
	UserID        string         `db:"user_id"`
	TeamID        string         `db:"team_public_id"`
	MatchID       string         `db:"match_id"`
	MatchDate     string         `db:"match_date"`
	MatchStartAt  time.Time      `db:"match_start_at"`
	PlayerIDs     pq.StringArray `db:"player_ids"`
	CaptainID     string         `db:"captain_id"`
	ViceCaptainID string         `db:"vice_captain_id"`
	SuperSubID    string         `db:"super_sub_id"`
	Source        string         `db:"source"`
	SubmittedAt   time.Time      `db:"submitted_at"`
	Effective     sql.NullString `db:"effective"`
}
