package usecase

import (
	"context"
	"time"
)

// MatchProvider is the external cricket data source.
type MatchProvider interface {
	ListSeriesMatches(ctx context.Context, seriesID string) ([]ProviderMatch, error)
	FetchMatchInfo(ctx context.Context, matchID string) (ProviderMatchInfo, error)
	// FetchScorecard returns the raw scorecard payload for the strict decoder.
	FetchScorecard(ctx context.Context, matchID string) ([]byte, error)
}

type ProviderMatch struct {
	ID         string
	Name       string
	SeriesID   string
	SeriesName string
	Status     string
	Completed  bool
	StartAt    time.Time
	Teams      []string
}

type ProviderMatchInfo struct {
	ID          string
	Status      string
	Completed   bool
	Teams       []string
	PlayingXI   []string
	Substitutes []string
}
