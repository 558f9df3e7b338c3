package matchpoints

import (
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/points"
)

func TestSeal_IgnoresComputedAt(t *testing.T) {
	t.Parallel()

	a := Snapshot{
		MatchID:        "m-1",
		RuleSetName:    "t20",
		RuleSetVersion: 1,
		Points:         []points.PlayerPoints{{Key: "virat kohli", Name: "Virat Kohli", Batting: 10, Total: 10}},
		PlayingXI:      []string{"virat kohli"},
		ComputedAt:     time.Unix(100, 0),
	}
	b := a
	b.ComputedAt = time.Unix(200, 0)

	if err := a.Seal(); err != nil {
		t.Fatalf("seal a: %v", err)
	}
	if err := b.Seal(); err != nil {
		t.Fatalf("seal b: %v", err)
	}
	if a.ContentHash == "" || a.ContentHash != b.ContentHash {
		t.Fatalf("unexpected hashes: a=%s b=%s", a.ContentHash, b.ContentHash)
	}

	c := a
	c.Points = []points.PlayerPoints{{Key: "virat kohli", Name: "Virat Kohli", Batting: 12, Total: 12}}
	if err := c.Seal(); err != nil {
		t.Fatalf("seal c: %v", err)
	}
	if c.ContentHash == a.ContentHash {
		t.Fatalf("expected content change to change hash")
	}
}

func TestSeal_NilAndEmptyAreEquivalent(t *testing.T) {
	t.Parallel()

	a := Snapshot{MatchID: "m-1", RuleSetName: "t20", RuleSetVersion: 1}
	b := Snapshot{MatchID: "m-1", RuleSetName: "t20", RuleSetVersion: 1, Warnings: []string{}, Points: []points.PlayerPoints{}}
	_ = a.Seal()
	_ = b.Seal()
	if a.ContentHash != b.ContentHash {
		t.Fatalf("nil and empty slices must hash the same")
	}
}

func TestSnapshotLookups(t *testing.T) {
	t.Parallel()

	s := Snapshot{
		Points:    []points.PlayerPoints{{Key: "a", Total: 3}, {Key: "b", Total: 1}},
		PlayingXI: []string{"a"},
	}
	if item, ok := s.Entry("a"); !ok || item.Total != 3 {
		t.Fatalf("unexpected entry: %+v ok=%v", item, ok)
	}
	if _, ok := s.Entry("z"); ok {
		t.Fatalf("unexpected entry for missing key")
	}
	if totals := s.Totals(); totals["b"] != 1 {
		t.Fatalf("unexpected totals: %v", totals)
	}
}
