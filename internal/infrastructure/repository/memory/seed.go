package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

const (
	SeedSeriesID   = "t20wc-2026"
	SeedSeriesName = "ICC Men's T20 World Cup 2026"
)

func seedPlayer(id, name, country string, role player.Role, credit string) player.Player {
	return player.Player{
		ID:      id,
		Name:    name,
		Country: country,
		Role:    role,
		Credit:  decimal.RequireFromString(credit),
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		seedPlayer("ind-01", "Rohit Sharma", "India", player.RoleBatter, "10"),
		seedPlayer("ind-02", "Virat Kohli", "India", player.RoleBatter, "10.5"),
		seedPlayer("ind-03", "Suryakumar Yadav", "India", player.RoleBatter, "9.5"),
		seedPlayer("ind-04", "Rishabh Pant", "India", player.RoleWicketKeeper, "9"),
		seedPlayer("ind-05", "Hardik Pandya", "India", player.RoleAllRounder, "9"),
		seedPlayer("ind-06", "Ravindra Jadeja", "India", player.RoleAllRounder, "8.5"),
		seedPlayer("ind-07", "Axar Patel", "India", player.RoleAllRounder, "8"),
		seedPlayer("ind-08", "Jasprit Bumrah", "India", player.RoleBowler, "9.5"),
		seedPlayer("ind-09", "Arshdeep Singh", "India", player.RoleBowler, "8.5"),
		seedPlayer("ind-10", "Kuldeep Yadav", "India", player.RoleBowler, "8"),
		seedPlayer("ind-11", "Mohammed Siraj", "India", player.RoleBowler, "7.5"),
		seedPlayer("ind-12", "Sanju Samson", "India", player.RoleWicketKeeper, "7.5"),
		seedPlayer("aus-01", "Travis Head", "Australia", player.RoleBatter, "9.5"),
		seedPlayer("aus-02", "Mitchell Marsh", "Australia", player.RoleAllRounder, "9"),
		seedPlayer("aus-03", "Glenn Maxwell", "Australia", player.RoleAllRounder, "9"),
		seedPlayer("aus-04", "Marcus Stoinis", "Australia", player.RoleAllRounder, "8.5"),
		seedPlayer("aus-05", "Tim David", "Australia", player.RoleBatter, "8"),
		seedPlayer("aus-06", "Matthew Wade", "Australia", player.RoleWicketKeeper, "7.5"),
		seedPlayer("aus-07", "Josh Inglis", "Australia", player.RoleWicketKeeper, "8"),
		seedPlayer("aus-08", "Pat Cummins", "Australia", player.RoleBowler, "9"),
		seedPlayer("aus-09", "Mitchell Starc", "Australia", player.RoleBowler, "9"),
		seedPlayer("aus-10", "Adam Zampa", "Australia", player.RoleBowler, "8.5"),
		seedPlayer("aus-11", "Josh Hazlewood", "Australia", player.RoleBowler, "8.5"),
		seedPlayer("aus-12", "David Warner", "Australia", player.RoleBatter, "9"),
	}
}

func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			MatchID:     "t20wc-2026-m01",
			SeriesID:    SeedSeriesID,
			SeriesName:  SeedSeriesName,
			Round:       1,
			Stage:       fixture.StageGroup,
			HomeCountry: "India",
			AwayCountry: "Australia",
			StartAt:     time.Date(2026, 2, 14, 13, 30, 0, 0, time.UTC),
			Venue:       "Wankhede Stadium, Mumbai",
		},
		{
			MatchID:     "t20wc-2026-m02",
			SeriesID:    SeedSeriesID,
			SeriesName:  SeedSeriesName,
			Round:       2,
			Stage:       fixture.StageGroup,
			HomeCountry: "Australia",
			AwayCountry: "India",
			StartAt:     time.Date(2026, 2, 20, 13, 30, 0, 0, time.UTC),
			Venue:       "Eden Gardens, Kolkata",
		},
		{
			MatchID:     "t20wc-2026-final",
			SeriesID:    SeedSeriesID,
			SeriesName:  SeedSeriesName,
			Round:       3,
			Stage:       fixture.StageFinal,
			HomeCountry: "India",
			AwayCountry: "Australia",
			StartAt:     time.Date(2026, 3, 8, 13, 30, 0, 0, time.UTC),
			Venue:       "Narendra Modi Stadium, Ahmedabad",
		},
	}
}
