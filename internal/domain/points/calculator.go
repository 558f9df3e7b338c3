package points

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scorecard"
)

const ballsPerOver = 6

var lbwOrBowledRegex = regexp.MustCompile(`(?i)^\s*(?:lbw\s+)?b\s+(.+?)\s*$`)

// RoleLookup resolves a canonical key to the player's role.
type RoleLookup func(key string) (player.Role, bool)

// Calculator turns a decoded scorecard into per-player points under one rule set.
type Calculator struct {
	rules   ruleset.RuleSet
	runOuts RunOutParser
	roleOf  RoleLookup
}

func NewCalculator(rules ruleset.RuleSet, runOuts RunOutParser, roleOf RoleLookup) *Calculator {
	if runOuts == nil {
		runOuts = RegexRunOutParser{}
	}
	if roleOf == nil {
		roleOf = func(string) (player.Role, bool) { return "", false }
	}
	return &Calculator{rules: rules, runOuts: runOuts, roleOf: roleOf}
}

type fieldingTally struct {
	catches   int
	stumpings int
}

// Calculate accumulates points per canonical name across every innings and
// returns them sorted by total descending, along with computation warnings.
func (c *Calculator) Calculate(card scorecard.Scorecard) ([]PlayerPoints, []string) {
	names := newNameIndex(card)
	byKey := make(map[string]*PlayerPoints)
	order := make([]string, 0, 32)
	tallies := make(map[string]*fieldingTally)
	var warnings []string

	entry := func(key, display string) *PlayerPoints {
		item, ok := byKey[key]
		if !ok {
			item = &PlayerPoints{Key: key, Name: display}
			byKey[key] = item
			order = append(order, key)
		}
		return item
	}

	for inningsIdx, inn := range card.Innings {
		for _, bat := range inn.Batting {
			key, display := names.resolve(bat.Name)
			if key == "" {
				warnings = append(warnings, fmt.Sprintf("innings %d: batting entry without usable name %q", inningsIdx+1, bat.Name))
				continue
			}
			entry(key, display).Batting += c.battingPoints(key, bat)
			warnings = append(warnings, c.creditDismissal(inningsIdx, bat, names, entry)...)
		}

		for _, bowl := range inn.Bowling {
			key, display := names.resolve(bowl.Name)
			if key == "" {
				warnings = append(warnings, fmt.Sprintf("innings %d: bowling entry without usable name %q", inningsIdx+1, bowl.Name))
				continue
			}
			entry(key, display).Bowling += c.bowlingPoints(bowl)
		}

		for _, field := range inn.Fielding {
			key, display := names.resolve(field.Name)
			if key == "" {
				warnings = append(warnings, fmt.Sprintf("innings %d: fielding entry without usable name %q", inningsIdx+1, field.Name))
				continue
			}
			entry(key, display)
			tally, ok := tallies[key]
			if !ok {
				tally = &fieldingTally{}
				tallies[key] = tally
			}
			tally.catches += field.Catches
			tally.stumpings += field.Stumpings
		}
	}

	rules := c.rules.Fielding
	for key, tally := range tallies {
		item := byKey[key]
		item.Fielding += float64(tally.catches)*rules.Catch + float64(tally.stumpings)*rules.Stumping
		if rules.CatchBonusThreshold > 0 && tally.catches >= rules.CatchBonusThreshold {
			item.Fielding += rules.CatchBonus
		}
	}

	out := make([]PlayerPoints, 0, len(order))
	for _, key := range order {
		item := *byKey[key]
		item.Recompute()
		out = append(out, item)
	}
	SortByTotal(out)
	return out, warnings
}

func (c *Calculator) battingPoints(key string, e scorecard.BattingEntry) float64 {
	rules := c.rules.Batting
	pts := float64(e.Runs)*rules.Run + float64(e.Fours)*rules.Boundary + float64(e.Sixes)*rules.Six
	pts += ruleset.HighestTier(rules.Milestones, e.Runs)
	if e.Runs == 0 && e.Dismissed() {
		pts += rules.Duck
	}

	if e.Balls > 0 && e.Balls >= rules.StrikeRate.MinBalls && !c.strikeRateExempt(key) {
		rate := float64(e.Runs) / float64(e.Balls) * 100
		pts += ruleset.BandPoints(rules.StrikeRate.Bands, rate)
	}
	return pts
}

func (c *Calculator) strikeRateExempt(key string) bool {
	if !c.rules.Batting.StrikeRate.ExceptBowler {
		return false
	}
	role, ok := c.roleOf(key)
	return ok && role == player.RoleBowler
}

func (c *Calculator) bowlingPoints(e scorecard.BowlingEntry) float64 {
	rules := c.rules.Bowling
	pts := float64(e.Wickets)*rules.Wicket + float64(e.Dots)*rules.Dot
	pts += ruleset.HighestTier(rules.WicketHauls, e.Wickets)
	pts += float64(e.Maidens) * rules.Maiden

	if e.Balls > 0 && e.Balls >= rules.Economy.MinOvers*ballsPerOver {
		economy := float64(e.Runs) / (float64(e.Balls) / ballsPerOver)
		pts += ruleset.BandPoints(rules.Economy.Bands, economy)
	}
	return pts
}

func (c *Calculator) creditDismissal(inningsIdx int, bat scorecard.BattingEntry, names nameIndex, entry func(string, string) *PlayerPoints) []string {
	var warnings []string

	if match := lbwOrBowledRegex.FindStringSubmatch(bat.Dismissal); len(match) == 2 {
		key, display := names.resolve(match[1])
		if key != "" {
			entry(key, display).Bowling += c.rules.Bowling.LBWBowledBonus
		}
	}

	if !IsRunOut(bat.Dismissal) {
		return warnings
	}
	fielders := c.runOuts.Fielders(bat.Dismissal)
	switch len(fielders) {
	case 0:
		warnings = append(warnings, fmt.Sprintf("innings %d: run-out of %q has no named fielder", inningsIdx+1, bat.Name))
	case 1:
		key, display := names.resolve(fielders[0])
		if key != "" {
			entry(key, display).Fielding += c.rules.Fielding.RunOutDirect
		}
	default:
		for _, fielder := range fielders {
			key, display := names.resolve(fielder)
			if key != "" {
				entry(key, display).Fielding += c.rules.Fielding.RunOutIndirect
			}
		}
	}
	return warnings
}

// nameIndex resolves partial names (usually surnames in dismissal text)
// against the full names seen in the scorecard.
type nameIndex struct {
	display map[string]string
	byLast  map[string][]string
}

func newNameIndex(card scorecard.Scorecard) nameIndex {
	idx := nameIndex{display: make(map[string]string), byLast: make(map[string][]string)}
	add := func(raw string) {
		key := player.CanonicalName(raw)
		if key == "" {
			return
		}
		if _, ok := idx.display[key]; ok {
			return
		}
		idx.display[key] = strings.TrimSpace(raw)
		last := lastToken(key)
		idx.byLast[last] = append(idx.byLast[last], key)
	}
	for _, name := range card.Names() {
		add(name)
	}
	for _, name := range card.PlayingXI {
		add(name)
	}
	for _, name := range card.Substitutes {
		add(name)
	}
	return idx
}

func (n nameIndex) resolve(raw string) (string, string) {
	key := player.CanonicalName(raw)
	if key == "" {
		return "", ""
	}
	if display, ok := n.display[key]; ok {
		return key, display
	}
	if !strings.Contains(key, " ") {
		if candidates := n.byLast[key]; len(candidates) == 1 {
			return candidates[0], n.display[candidates[0]]
		}
	}
	return key, strings.TrimSpace(raw)
}

func lastToken(key string) string {
	if idx := strings.LastIndexByte(key, ' '); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
