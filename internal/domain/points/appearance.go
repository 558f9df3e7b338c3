package points

import (
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

// ApplyAppearances sets the playing-XI bonus on every lineup name and the
// substitute bonus on every substitute outside the lineup. Missing names get a
// zero-stat entry. Each bonus lands at most once per key, so reapplying is a no-op.
func ApplyAppearances(items []PlayerPoints, lineup, substitutes []string, xiBonus, subBonus float64) []PlayerPoints {
	out := clonePoints(items)
	index := make(map[string]int, len(out))
	for i, item := range out {
		index[item.Key] = i
	}

	entry := func(raw string) (*PlayerPoints, bool) {
		key := player.CanonicalName(raw)
		if key == "" {
			return nil, false
		}
		if i, ok := index[key]; ok {
			return &out[i], true
		}
		out = append(out, PlayerPoints{Key: key, Name: strings.TrimSpace(raw)})
		index[key] = len(out) - 1
		return &out[len(out)-1], true
	}

	inLineup := make(map[string]struct{}, len(lineup))
	for _, name := range lineup {
		item, ok := entry(name)
		if !ok {
			continue
		}
		inLineup[item.Key] = struct{}{}
		item.Appearance = xiBonus
	}

	for _, name := range substitutes {
		key := player.CanonicalName(name)
		if key == "" {
			continue
		}
		if _, ok := inLineup[key]; ok {
			continue
		}
		item, _ := entry(name)
		item.Substitute = subBonus
	}

	for i := range out {
		out[i].Recompute()
	}
	SortByTotal(out)
	return out
}

// LineupKeys canonicalizes and de-duplicates a list of raw names.
func LineupKeys(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := player.CanonicalName(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
