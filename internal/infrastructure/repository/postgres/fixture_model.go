package postgres

import "time"

type fixtureTableModel struct {
	MatchID     string    `db:"match_id"`
	SeriesID    string    `db:"series_id"`
	SeriesName  string    `db:"series_name"`
	Round       int       `db:"round"`
	Stage       string    `db:"stage"`
	HomeCountry string    `db:"home_country"`
	AwayCountry string    `db:"away_country"`
	StartAt     time.Time `db:"start_at"`
	Venue       string    `db:"venue"`
}
