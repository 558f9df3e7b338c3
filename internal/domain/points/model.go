package points

import "sort"

// PlayerPoints is one player's point breakdown for a match, keyed by canonical name.
type PlayerPoints struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Batting    float64 `json:"batting"`
	Bowling    float64 `json:"bowling"`
	Fielding   float64 `json:"fielding"`
	Appearance float64 `json:"appearance"`
	Substitute float64 `json:"substitute"`
	Total      float64 `json:"total"`
}

// Recompute sets Total to the sum of every bucket.
func (p *PlayerPoints) Recompute() {
	p.Total = p.Batting + p.Bowling + p.Fielding + p.Appearance + p.Substitute
}

// SortByTotal orders by total descending, then key ascending.
func SortByTotal(items []PlayerPoints) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Total != items[j].Total {
			return items[i].Total > items[j].Total
		}
		return items[i].Key < items[j].Key
	})
}

// TotalsByKey indexes totals by canonical key.
func TotalsByKey(items []PlayerPoints) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, item := range items {
		out[item.Key] += item.Total
	}
	return out
}

func clonePoints(items []PlayerPoints) []PlayerPoints {
	return append([]PlayerPoints(nil), items...)
}
