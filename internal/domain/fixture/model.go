package fixture

import (
	"strings"
	"time"
)

// Stage selects the transfer regime a match belongs to.
type Stage string

const (
	StageGroup Stage = "GROUP"
	StageFinal Stage = "FINAL"
)

const matchDateLayout = "2006-01-02"

func NormalizeStage(value string) Stage {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "FINAL", "FINALS", "KNOCKOUT", "PLAYOFF", "PLAYOFFS", "SEMI_FINAL", "SEMIFINAL":
		return StageFinal
	default:
		return StageGroup
	}
}

// Fixture is one scheduled tournament match.
type Fixture struct {
	MatchID     string
	SeriesID    string
	SeriesName  string
	Round       int
	Stage       Stage
	HomeCountry string
	AwayCountry string
	StartAt     time.Time
	Venue       string
}

// EndAt is the nominal end time used by post-match scheduling.
func (f Fixture) EndAt(duration time.Duration) time.Time {
	return f.StartAt.Add(duration)
}

// MatchDate is the calendar date of the start time in loc.
func (f Fixture) MatchDate(loc *time.Location) string {
	return DateIn(f.StartAt, loc)
}

func DateIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(matchDateLayout)
}

// DayBounds returns [start, end) of the calendar day in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := day.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
