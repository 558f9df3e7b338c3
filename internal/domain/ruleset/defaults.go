package ruleset

const DefaultName = "t20"

func bound(v float64) *float64 {
	return &v
}

// Default returns the T20 rule set. The strike-rate gap between 70 and 130,
// the exact 150 boundary, and the economy gap between 7 and 10 award nothing.
func Default() RuleSet {
	return RuleSet{
		Name:    DefaultName,
		Version: 1,
		Batting: BattingRules{
			Run:      1,
			Boundary: 4,
			Six:      6,
			Duck:     -2,
			Milestones: []Tier{
				{Threshold: 25, Points: 4},
				{Threshold: 50, Points: 8},
				{Threshold: 75, Points: 12},
				{Threshold: 100, Points: 16},
			},
			StrikeRate: StrikeRateRules{
				MinBalls:     10,
				ExceptBowler: true,
				Bands: []Band{
					{Min: bound(170), MinExclusive: true, Points: 6},
					{Min: bound(150), MinExclusive: true, Max: bound(170), Points: 4},
					{Min: bound(130), Max: bound(150), MaxExclusive: true, Points: 2},
					{Min: bound(60), Max: bound(70), Points: -2},
					{Min: bound(50), Max: bound(60), MaxExclusive: true, Points: -4},
					{Max: bound(50), MaxExclusive: true, Points: -6},
				},
			},
		},
		Bowling: BowlingRules{
			Wicket:         30,
			Dot:            1,
			Maiden:         12,
			LBWBowledBonus: 8,
			WicketHauls: []Tier{
				{Threshold: 3, Points: 4},
				{Threshold: 4, Points: 8},
				{Threshold: 5, Points: 12},
			},
			Economy: EconomyRules{
				MinOvers: 2,
				Bands: []Band{
					{Max: bound(5), MaxExclusive: true, Points: 6},
					{Min: bound(5), Max: bound(6), MaxExclusive: true, Points: 4},
					{Min: bound(6), Max: bound(7), Points: 2},
					{Min: bound(10), Max: bound(11), Points: -2},
					{Min: bound(11), MinExclusive: true, Max: bound(12), Points: -4},
					{Min: bound(12), MinExclusive: true, Points: -6},
				},
			},
		},
		Fielding: FieldingRules{
			Catch:               8,
			CatchBonusThreshold: 3,
			CatchBonus:          4,
			Stumping:            12,
			RunOutDirect:        12,
			RunOutIndirect:      6,
		},
		Additional: AdditionalRules{
			CaptainMultiplier:     2,
			ViceCaptainMultiplier: 1.5,
			PlayingXI:             4,
			Substitute:            4,
		},
	}
}
