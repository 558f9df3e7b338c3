package ruleset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidRuleSet = errors.New("invalid rule set")
	ErrAlreadyExists  = errors.New("rule set already exists")
)

// Tier awards Points once Threshold is reached. Only the highest reached tier applies.
type Tier struct {
	Threshold int     `json:"threshold"`
	Points    float64 `json:"points"`
}

// Band matches a rate inside optional bounds. A nil bound is unbounded.
type Band struct {
	Min          *float64 `json:"min,omitempty"`
	MinExclusive bool     `json:"min_exclusive,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	MaxExclusive bool     `json:"max_exclusive,omitempty"`
	Points       float64  `json:"points"`
}

func (b Band) Contains(value float64) bool {
	if b.Min != nil {
		if b.MinExclusive && value <= *b.Min {
			return false
		}
		if !b.MinExclusive && value < *b.Min {
			return false
		}
	}
	if b.Max != nil {
		if b.MaxExclusive && value >= *b.Max {
			return false
		}
		if !b.MaxExclusive && value > *b.Max {
			return false
		}
	}
	return true
}

type StrikeRateRules struct {
	MinBalls     int    `json:"min_balls"`
	ExceptBowler bool   `json:"except_bowler"`
	Bands        []Band `json:"bands"`
}

type EconomyRules struct {
	MinOvers int    `json:"min_overs"`
	Bands    []Band `json:"bands"`
}

type BattingRules struct {
	Run        float64         `json:"run"`
	Boundary   float64         `json:"boundary"`
	Six        float64         `json:"six"`
	Duck       float64         `json:"duck"`
	Milestones []Tier          `json:"milestones"`
	StrikeRate StrikeRateRules `json:"strike_rate"`
}

type BowlingRules struct {
	Wicket         float64      `json:"wicket"`
	Dot            float64      `json:"dot"`
	Maiden         float64      `json:"maiden"`
	LBWBowledBonus float64      `json:"lbw_bowled_bonus"`
	WicketHauls    []Tier       `json:"wicket_hauls"`
	Economy        EconomyRules `json:"economy"`
}

type FieldingRules struct {
	Catch               float64 `json:"catch"`
	CatchBonusThreshold int     `json:"catch_bonus_threshold"`
	CatchBonus          float64 `json:"catch_bonus"`
	Stumping            float64 `json:"stumping"`
	RunOutDirect        float64 `json:"run_out_direct"`
	RunOutIndirect      float64 `json:"run_out_indirect"`
}

type AdditionalRules struct {
	CaptainMultiplier     float64 `json:"captain_multiplier"`
	ViceCaptainMultiplier float64 `json:"vice_captain_multiplier"`
	PlayingXI             float64 `json:"playing_xi"`
	Substitute            float64 `json:"substitute"`
}

// RuleSet is a named, versioned table of point values per statistical event.
type RuleSet struct {
	Name       string          `json:"name"`
	Version    int             `json:"version"`
	Batting    BattingRules    `json:"batting"`
	Bowling    BowlingRules    `json:"bowling"`
	Fielding   FieldingRules   `json:"fielding"`
	Additional AdditionalRules `json:"additional"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (r RuleSet) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRuleSet)
	}
	if r.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1", ErrInvalidRuleSet)
	}
	if err := validateTiers("batting milestones", r.Batting.Milestones); err != nil {
		return err
	}
	if err := validateTiers("wicket hauls", r.Bowling.WicketHauls); err != nil {
		return err
	}
	if err := validateBands("strike rate", r.Batting.StrikeRate.Bands); err != nil {
		return err
	}
	if err := validateBands("economy", r.Bowling.Economy.Bands); err != nil {
		return err
	}
	if r.Batting.StrikeRate.MinBalls < 0 || r.Bowling.Economy.MinOvers < 0 {
		return fmt.Errorf("%w: minimum qualifiers must be >= 0", ErrInvalidRuleSet)
	}
	return nil
}

// HighestTier returns the points of the largest threshold reached by value.
func HighestTier(tiers []Tier, value int) float64 {
	best := -1
	var points float64
	for _, tier := range tiers {
		if value >= tier.Threshold && tier.Threshold > best {
			best = tier.Threshold
			points = tier.Points
		}
	}
	return points
}

// BandPoints returns the points of the first band containing value.
func BandPoints(bands []Band, value float64) float64 {
	for _, band := range bands {
		if band.Contains(value) {
			return band.Points
		}
	}
	return 0
}

func validateTiers(label string, tiers []Tier) error {
	sorted := sort.SliceIsSorted(tiers, func(i, j int) bool {
		return tiers[i].Threshold < tiers[j].Threshold
	})
	if !sorted {
		return fmt.Errorf("%w: %s must be ordered by threshold", ErrInvalidRuleSet, label)
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Threshold == tiers[i-1].Threshold {
			return fmt.Errorf("%w: %s has duplicate threshold %d", ErrInvalidRuleSet, label, tiers[i].Threshold)
		}
	}
	return nil
}

func validateBands(label string, bands []Band) error {
	for i, band := range bands {
		if band.Min != nil && band.Max != nil && *band.Min > *band.Max {
			return fmt.Errorf("%w: %s band %d has min > max", ErrInvalidRuleSet, label, i)
		}
	}
	return nil
}
