package fixture

import (
	"testing"
	"time"
)

func TestFixtureMatchDateUsesLocation(t *testing.T) {
	t.Parallel()

	kolkata := time.FixedZone("IST", 5*3600+1800)
	f := Fixture{StartAt: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)}
	if got := f.MatchDate(kolkata); got != "2026-03-02" {
		t.Fatalf("unexpected match date: got=%s want=2026-03-02", got)
	}
	if got := f.MatchDate(nil); got != "2026-03-01" {
		t.Fatalf("unexpected utc match date: got=%s", got)
	}
}

func TestDayBounds(t *testing.T) {
	t.Parallel()

	kolkata := time.FixedZone("IST", 5*3600+1800)
	start, end := DayBounds(time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC), kolkata)
	if want := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("unexpected day start: got=%s want=%s", start, want)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Fatalf("unexpected day length: %s", end.Sub(start))
	}
}

func TestNormalizeStage(t *testing.T) {
	t.Parallel()

	if NormalizeStage("final") != StageFinal || NormalizeStage("semi_final") != StageFinal || NormalizeStage("") != StageGroup {
		t.Fatalf("unexpected stage normalization")
	}
}
