package supersub

import (
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

// Skip names the first precondition that failed.
type Skip string

const (
	SkipNone            Skip = ""
	SkipNoSuperSub      Skip = "no_super_sub"
	SkipNotEngaged      Skip = "not_engaged"
	SkipNoGap           Skip = "no_gap"
	SkipSuperSubBenched Skip = "super_sub_not_in_xi"
	SkipAlreadyInRoster Skip = "super_sub_in_roster"
)

// Member is one submitted player with the attributes the resolver reads.
type Member struct {
	PlayerID string
	Name     string
	Country  string
}

type Input struct {
	// Roster is in submitted order; ties fall back to this order.
	Roster        []Member
	CaptainID     string
	ViceCaptainID string
	SuperSub      *Member

	HomeCountry string
	AwayCountry string
	// PlayingXI holds canonical keys of the official lineup.
	PlayingXI []string
	// BaseTotals maps canonical keys to the match total before multipliers.
	BaseTotals map[string]float64
}

// Resolution is the roster scoring must use for the match. Names are canonical keys.
type Resolution struct {
	EffectiveRosterKeys      []string
	EffectiveCaptainName     string
	EffectiveViceCaptainName string
	Applied                  bool
	Engaged                  bool
	ReplacedName             string
	SuperSubName             string
	Skip                     Skip
}

// Resolve swaps the super-sub in for the weakest engaged starter missing from
// the playing XI. Any failed precondition returns the submitted roster unchanged.
func Resolve(in Input) Resolution {
	keys := make([]string, len(in.Roster))
	captainIdx, viceIdx := -1, -1
	for i, member := range in.Roster {
		keys[i] = player.CanonicalName(member.Name)
		if member.PlayerID != "" && member.PlayerID == in.CaptainID {
			captainIdx = i
		}
		if member.PlayerID != "" && member.PlayerID == in.ViceCaptainID {
			viceIdx = i
		}
	}

	out := Resolution{EffectiveRosterKeys: keys}
	if captainIdx >= 0 {
		out.EffectiveCaptainName = keys[captainIdx]
	}
	if viceIdx >= 0 {
		out.EffectiveViceCaptainName = keys[viceIdx]
	}

	engaged := make([]int, 0, len(in.Roster))
	for i, member := range in.Roster {
		if player.SameName(member.Country, in.HomeCountry) || player.SameName(member.Country, in.AwayCountry) {
			engaged = append(engaged, i)
		}
	}
	out.Engaged = len(engaged) > 0

	var superKey string
	if in.SuperSub != nil {
		superKey = player.CanonicalName(in.SuperSub.Name)
	}
	if superKey == "" {
		out.Skip = SkipNoSuperSub
		return out
	}
	if !out.Engaged {
		out.Skip = SkipNotEngaged
		return out
	}

	lineup := make(map[string]struct{}, len(in.PlayingXI))
	for _, name := range in.PlayingXI {
		if key := player.CanonicalName(name); key != "" {
			lineup[key] = struct{}{}
		}
	}

	benched := make([]int, 0, len(engaged))
	for _, idx := range engaged {
		if keys[idx] == "" {
			continue
		}
		if _, ok := lineup[keys[idx]]; !ok {
			benched = append(benched, idx)
		}
	}
	if len(benched) == 0 {
		out.Skip = SkipNoGap
		return out
	}
	if _, ok := lineup[superKey]; !ok {
		out.Skip = SkipSuperSubBenched
		return out
	}
	for _, key := range keys {
		if key == superKey {
			out.Skip = SkipAlreadyInRoster
			return out
		}
	}

	replaced := pickReplacement(benched, keys, captainIdx, viceIdx, in.BaseTotals)

	effective := append([]string(nil), keys...)
	effective[replaced] = superKey
	out.EffectiveRosterKeys = effective
	if replaced == captainIdx {
		out.EffectiveCaptainName = superKey
	}
	if replaced == viceIdx {
		out.EffectiveViceCaptainName = superKey
	}
	out.Applied = true
	out.ReplacedName = keys[replaced]
	out.SuperSubName = superKey
	return out
}

// pickReplacement returns the benched index with the lowest base total.
// Ties prefer the captain, then the vice-captain, then roster order.
func pickReplacement(benched []int, keys []string, captainIdx, viceIdx int, totals map[string]float64) int {
	rank := func(idx int) int {
		switch idx {
		case captainIdx:
			return 0
		case viceIdx:
			return 1
		default:
			return 2
		}
	}

	best := benched[0]
	for _, idx := range benched[1:] {
		bestTotal, total := totals[keys[best]], totals[keys[idx]]
		switch {
		case total < bestTotal:
			best = idx
		case total == bestTotal && rank(idx) < rank(best):
			best = idx
		}
	}
	return best
}
