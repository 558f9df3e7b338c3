package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/points"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scorecard"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

var matchCompletedStatusRegex = regexp.MustCompile(`(?i)\b(won by|won the super over|match tied|tied|no result|drawn|match ended)\b`)

type MatchPointsSyncConfig struct {
	SeriesID     string
	SeriesName   string
	RuleSetName  string
	MatchTimeout time.Duration
}

// MatchSyncOutcome describes what happened to one match in a sync run.
type MatchSyncOutcome string

const (
	OutcomeUpdated    MatchSyncOutcome = "updated"
	OutcomeUnchanged  MatchSyncOutcome = "unchanged"
	OutcomeIncomplete MatchSyncOutcome = "incomplete"
	OutcomeBadShape   MatchSyncOutcome = "unrecognized_shape"
)

type SyncResult struct {
	Listed         int `json:"listed"`
	InScope        int `json:"in_scope"`
	Updated        int `json:"updated"`
	Unchanged      int `json:"unchanged"`
	Incomplete     int `json:"incomplete"`
	BadShape       int `json:"unrecognized_shape"`
	Failed         int `json:"failed"`
	PlayersUpdated int `json:"players_updated"`
}

type MatchPointsSyncService struct {
	provider  MatchProvider
	rulesets  ruleset.Repository
	snapshots matchpoints.Repository
	players   player.Repository
	cfg       MatchPointsSyncConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchPointsSyncService(
	provider MatchProvider,
	rulesets ruleset.Repository,
	snapshots matchpoints.Repository,
	players player.Repository,
	cfg MatchPointsSyncConfig,
	logger *logging.Logger,
) *MatchPointsSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.RuleSetName) == "" {
		cfg.RuleSetName = ruleset.DefaultName
	}
	if cfg.MatchTimeout <= 0 {
		cfg.MatchTimeout = 45 * time.Second
	}

	return &MatchPointsSyncService{
		provider:  provider,
		rulesets:  rulesets,
		snapshots: snapshots,
		players:   players,
		cfg:       cfg,
		logger:    logger.Named("match_points_sync"),
		now:       time.Now,
	}
}

// Sync recomputes snapshots for every completed in-scope match of the series
// and then re-aggregates season totals. Only a match-list failure aborts the run.
func (s *MatchPointsSyncService) Sync(ctx context.Context) (result SyncResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchPointsSyncService.Sync", attribute.String("series_id", s.cfg.SeriesID))
	defer func() { finishSpan(span, err) }()

	rules, err := s.activeRuleSet(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	matches, err := s.provider.ListSeriesMatches(ctx, s.cfg.SeriesID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: list series matches series=%s: %w", ErrProviderUnavailable, s.cfg.SeriesID, err)
	}
	result.Listed = len(matches)

	calc, err := s.newCalculator(ctx, rules)
	if err != nil {
		return SyncResult{}, err
	}

	for _, match := range matches {
		if !s.inScope(match) {
			continue
		}
		result.InScope++

		outcome, err := s.syncOne(ctx, rules, calc, match)
		if err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "match points sync failed, continuing batch",
				"match_id", match.ID,
				"error", err,
			)
			continue
		}
		switch outcome {
		case OutcomeUpdated:
			result.Updated++
		case OutcomeUnchanged:
			result.Unchanged++
		case OutcomeIncomplete:
			result.Incomplete++
		case OutcomeBadShape:
			result.BadShape++
		}
	}

	updated, err := s.RecomputeSeasonTotals(ctx)
	if err != nil {
		return result, err
	}
	result.PlayersUpdated = updated

	s.logger.InfoContext(ctx, "match points sync finished",
		"listed", result.Listed,
		"in_scope", result.InScope,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"incomplete", result.Incomplete,
		"unrecognized_shape", result.BadShape,
		"failed", result.Failed,
		"players_updated", result.PlayersUpdated,
	)
	return result, nil
}

// SyncMatch processes a single match regardless of series scope and re-aggregates.
func (s *MatchPointsSyncService) SyncMatch(ctx context.Context, matchID string) (outcome MatchSyncOutcome, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchPointsSyncService.SyncMatch", attribute.String("match_id", matchID))
	defer func() { finishSpan(span, err) }()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return "", fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	rules, err := s.activeRuleSet(ctx)
	if err != nil {
		return "", err
	}
	calc, err := s.newCalculator(ctx, rules)
	if err != nil {
		return "", err
	}

	outcome, err = s.syncOne(ctx, rules, calc, ProviderMatch{ID: matchID})
	if err != nil {
		return "", err
	}
	if _, err := s.RecomputeSeasonTotals(ctx); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// RecomputeSeasonTotals sums every stored snapshot of the active rule set by
// canonical name and bulk-writes player totals. It returns the number of players written.
func (s *MatchPointsSyncService) RecomputeSeasonTotals(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchPointsSyncService.RecomputeSeasonTotals")
	defer span.End()

	snapshots, err := s.snapshots.ListByRuleSet(ctx, s.cfg.RuleSetName)
	if err != nil {
		return 0, fmt.Errorf("list snapshots ruleset=%s: %w", s.cfg.RuleSetName, err)
	}

	byKey := make(map[string]float64)
	for _, snapshot := range snapshots {
		for key, total := range snapshot.Totals() {
			byKey[key] += total
		}
	}

	players, err := s.players.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list players: %w", err)
	}

	totals := make(map[string]float64, len(players))
	for _, p := range players {
		if key := p.Key(); key != "" {
			totals[p.ID] = byKey[key]
		}
	}
	if len(totals) == 0 {
		return 0, nil
	}

	if err := s.players.UpdateTotals(ctx, totals); err != nil {
		return 0, fmt.Errorf("update player totals: %w", err)
	}
	return len(totals), nil
}

func (s *MatchPointsSyncService) syncOne(ctx context.Context, rules ruleset.RuleSet, calc *points.Calculator, match ProviderMatch) (MatchSyncOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MatchTimeout)
	defer cancel()

	info, err := s.provider.FetchMatchInfo(ctx, match.ID)
	if err != nil {
		return "", fmt.Errorf("%w: fetch match info match=%s: %w", ErrProviderUnavailable, match.ID, err)
	}
	raw, err := s.provider.FetchScorecard(ctx, match.ID)
	if err != nil {
		return "", fmt.Errorf("%w: fetch scorecard match=%s: %w", ErrProviderUnavailable, match.ID, err)
	}

	card, err := scorecard.Decode(raw)
	if err != nil {
		if errors.Is(err, ErrDataShapeUnrecognized) {
			s.logger.WarnContext(ctx, "skip match with unrecognized scorecard shape, prior snapshot kept",
				"match_id", match.ID,
				"error", err,
			)
			return OutcomeBadShape, nil
		}
		return "", fmt.Errorf("decode scorecard match=%s: %w", match.ID, err)
	}

	if !matchCompleted(match, info, card) {
		s.logger.DebugContext(ctx, "skip incomplete match", "match_id", match.ID, "status", firstNonEmpty(info.Status, match.Status))
		return OutcomeIncomplete, nil
	}

	lineup, substitutes := resolveLineups(info, card)
	computed, warnings := calc.Calculate(card)
	if len(lineup) == 0 {
		lineup = card.Names()
		warnings = append(warnings, "playing xi unavailable; derived from scorecard names")
	}
	computed = points.ApplyAppearances(computed, lineup, substitutes, rules.Additional.PlayingXI, rules.Additional.Substitute)

	snapshot := matchpoints.Snapshot{
		MatchID:        match.ID,
		RuleSetName:    rules.Name,
		RuleSetVersion: rules.Version,
		Points:         computed,
		PlayingXI:      points.LineupKeys(lineup),
		Substitutes:    points.LineupKeys(substitutes),
		Warnings:       warnings,
		ComputedAt:     s.now().UTC(),
	}
	if err := snapshot.Seal(); err != nil {
		return "", fmt.Errorf("seal snapshot match=%s: %w", match.ID, err)
	}

	changed, err := s.snapshots.Upsert(ctx, snapshot)
	if err != nil {
		return "", fmt.Errorf("upsert snapshot match=%s: %w", match.ID, err)
	}
	for _, warning := range warnings {
		s.logger.WarnContext(ctx, "match points warning", "match_id", match.ID, "warning", warning)
	}
	if !changed {
		return OutcomeUnchanged, nil
	}

	s.logger.InfoContext(ctx, "match points snapshot updated",
		"match_id", match.ID,
		"ruleset", rules.Name,
		"players", len(computed),
		"content_hash", snapshot.ContentHash,
	)
	return OutcomeUpdated, nil
}

func (s *MatchPointsSyncService) activeRuleSet(ctx context.Context) (ruleset.RuleSet, error) {
	rules, exists, err := s.rulesets.GetActive(ctx, s.cfg.RuleSetName)
	if err != nil {
		return ruleset.RuleSet{}, fmt.Errorf("get ruleset name=%s: %w", s.cfg.RuleSetName, err)
	}
	if !exists {
		return ruleset.RuleSet{}, fmt.Errorf("%w: ruleset=%s", ErrNotFound, s.cfg.RuleSetName)
	}
	return rules, nil
}

func (s *MatchPointsSyncService) newCalculator(ctx context.Context, rules ruleset.RuleSet) (*points.Calculator, error) {
	players, err := s.players.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players for roles: %w", err)
	}
	roles := make(map[string]player.Role, len(players))
	for _, p := range players {
		if key := p.Key(); key != "" {
			roles[key] = p.Role
		}
	}
	return points.NewCalculator(rules, points.RegexRunOutParser{}, func(key string) (player.Role, bool) {
		role, ok := roles[key]
		return role, ok
	}), nil
}

// inScope matches by series id first, then by case-insensitive series name.
// Matches without series metadata are included.
func (s *MatchPointsSyncService) inScope(match ProviderMatch) bool {
	seriesID := strings.TrimSpace(match.SeriesID)
	seriesName := strings.TrimSpace(match.SeriesName)
	if seriesID == "" && seriesName == "" {
		return true
	}
	if seriesID != "" && seriesID == strings.TrimSpace(s.cfg.SeriesID) {
		return true
	}
	want := strings.TrimSpace(s.cfg.SeriesName)
	return seriesName != "" && want != "" && strings.EqualFold(seriesName, want)
}

func matchCompleted(match ProviderMatch, info ProviderMatchInfo, card scorecard.Scorecard) bool {
	if match.Completed || info.Completed || card.Ended {
		return true
	}
	return matchCompletedStatusRegex.MatchString(match.Status) || matchCompletedStatusRegex.MatchString(info.Status)
}

func resolveLineups(info ProviderMatchInfo, card scorecard.Scorecard) ([]string, []string) {
	lineup := info.PlayingXI
	if len(lineup) == 0 {
		lineup = card.PlayingXI
	}
	substitutes := info.Substitutes
	if len(substitutes) == 0 {
		substitutes = card.Substitutes
	}
	return lineup, substitutes
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
