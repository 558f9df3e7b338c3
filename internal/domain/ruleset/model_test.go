package ruleset

import (
	"errors"
	"testing"
)

func TestDefault_Validate(t *testing.T) {
	t.Parallel()

	if err := Default().Validate(); err != nil {
		t.Fatalf("default rule set must be valid: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(r *RuleSet)
	}{
		{name: "empty name", mutate: func(r *RuleSet) { r.Name = " " }},
		{name: "zero version", mutate: func(r *RuleSet) { r.Version = 0 }},
		{name: "unordered milestones", mutate: func(r *RuleSet) {
			r.Batting.Milestones = []Tier{{Threshold: 50, Points: 8}, {Threshold: 25, Points: 4}}
		}},
		{name: "duplicate haul", mutate: func(r *RuleSet) {
			r.Bowling.WicketHauls = []Tier{{Threshold: 3, Points: 4}, {Threshold: 3, Points: 8}}
		}},
		{name: "inverted band", mutate: func(r *RuleSet) {
			r.Bowling.Economy.Bands = []Band{{Min: bound(9), Max: bound(8), Points: 1}}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rules := Default()
			tc.mutate(&rules)
			if err := rules.Validate(); !errors.Is(err, ErrInvalidRuleSet) {
				t.Fatalf("expected ErrInvalidRuleSet, got %v", err)
			}
		})
	}
}

func TestHighestTier(t *testing.T) {
	t.Parallel()

	tiers := Default().Batting.Milestones
	cases := map[int]float64{0: 0, 24: 0, 25: 4, 49: 4, 50: 8, 99: 12, 100: 16, 180: 16}
	for runs, want := range cases {
		if got := HighestTier(tiers, runs); got != want {
			t.Fatalf("unexpected tier for runs=%d: got=%v want=%v", runs, got, want)
		}
	}
}

func TestBandPoints_StrikeRateDeadZones(t *testing.T) {
	t.Parallel()

	bands := Default().Batting.StrikeRate.Bands
	cases := []struct {
		rate float64
		want float64
	}{
		{rate: 200, want: 6},
		{rate: 170.5, want: 6},
		{rate: 170, want: 4},
		{rate: 150.1, want: 4},
		{rate: 150, want: 0},
		{rate: 149.9, want: 2},
		{rate: 130, want: 2},
		{rate: 129.9, want: 0},
		{rate: 100, want: 0},
		{rate: 70.1, want: 0},
		{rate: 70, want: -2},
		{rate: 60, want: -2},
		{rate: 59.9, want: -4},
		{rate: 50, want: -4},
		{rate: 49.9, want: -6},
		{rate: 0, want: -6},
	}
	for _, tc := range cases {
		if got := BandPoints(bands, tc.rate); got != tc.want {
			t.Fatalf("unexpected strike-rate points for %.1f: got=%v want=%v", tc.rate, got, tc.want)
		}
	}
}

func TestBandPoints_EconomyDeadZones(t *testing.T) {
	t.Parallel()

	bands := Default().Bowling.Economy.Bands
	cases := []struct {
		economy float64
		want    float64
	}{
		{economy: 3, want: 6},
		{economy: 4.99, want: 6},
		{economy: 5, want: 4},
		{economy: 5.99, want: 4},
		{economy: 6, want: 2},
		{economy: 7, want: 2},
		{economy: 7.01, want: 0},
		{economy: 9.99, want: 0},
		{economy: 10, want: -2},
		{economy: 11, want: -2},
		{economy: 11.01, want: -4},
		{economy: 12, want: -4},
		{economy: 12.01, want: -6},
	}
	for _, tc := range cases {
		if got := BandPoints(bands, tc.economy); got != tc.want {
			t.Fatalf("unexpected economy points for %.2f: got=%v want=%v", tc.economy, got, tc.want)
		}
	}
}
