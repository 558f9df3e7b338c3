package postgres

import (
	"time"

	"github.com/lib/pq"
)

type matchPointsTableModel struct {
	MatchID        string         `db:"match_id"`
	RuleSetName    string         `db:"ruleset_name"`
	RuleSetVersion int            `db:"ruleset_version"`
	Points         []byte         `db:"points"`
	PlayingXI      pq.StringArray `db:"playing_xi"`
	Substitutes    pq.StringArray `db:"substitutes"`
	Warnings       pq.StringArray `db:"warnings"`
	ContentHash    string         `db:"content_hash"`
	ComputedAt     time.Time      `db:"computed_at"`
}

type matchPointsInsertModel struct {
	MatchID        string         `db:"match_id"`
	RuleSetName    string         `db:"ruleset_name"`
	RuleSetVersion int            `db:"ruleset_version"`
	Points         string         `db:"points"`
	PlayingXI      pq.StringArray `db:"playing_xi"`
	Substitutes    pq.StringArray `db:"substitutes"`
	Warnings       pq.StringArray `db:"warnings"`
	ContentHash    string         `db:"content_hash"`
	ComputedAt     time.Time      `db:"computed_at"`
}
