package matchpoints

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/points"
)

// Snapshot is the computed points of one match under one rule set.
type Snapshot struct {
	MatchID        string
	RuleSetName    string
	RuleSetVersion int
	Points         []points.PlayerPoints
	PlayingXI      []string
	Substitutes    []string
	Warnings       []string
	ContentHash    string
	ComputedAt     time.Time
}

type hashedContent struct {
	MatchID        string                `json:"match_id"`
	RuleSetName    string                `json:"ruleset_name"`
	RuleSetVersion int                   `json:"ruleset_version"`
	Points         []points.PlayerPoints `json:"points"`
	PlayingXI      []string              `json:"playing_xi"`
	Substitutes    []string              `json:"substitutes"`
	Warnings       []string              `json:"warnings"`
}

// Seal sets ContentHash from every field except ComputedAt and the hash itself.
func (s *Snapshot) Seal() error {
	payload, err := sonic.Marshal(hashedContent{
		MatchID:        s.MatchID,
		RuleSetName:    s.RuleSetName,
		RuleSetVersion: s.RuleSetVersion,
		Points:         nonNil(s.Points),
		PlayingXI:      nonNil(s.PlayingXI),
		Substitutes:    nonNil(s.Substitutes),
		Warnings:       nonNil(s.Warnings),
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot content: %w", err)
	}
	sum := sha256.Sum256(payload)
	s.ContentHash = hex.EncodeToString(sum[:])
	return nil
}

// Entry returns the points for a canonical key.
func (s Snapshot) Entry(key string) (points.PlayerPoints, bool) {
	for _, item := range s.Points {
		if item.Key == key {
			return item, true
		}
	}
	return points.PlayerPoints{}, false
}

func (s Snapshot) Totals() map[string]float64 {
	return points.TotalsByKey(s.Points)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
