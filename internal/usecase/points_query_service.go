package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

type PointsSinceInput struct {
	PlayerIDs []string
	Since     time.Time
	// Until is exclusive; zero means unbounded.
	Until time.Time
}

type PlayerPointsTotal struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Matches  int     `json:"matches"`
	Points   float64 `json:"points"`
}

type ScoredPlayer struct {
	Key        string  `json:"key"`
	Base       float64 `json:"base"`
	Multiplier float64 `json:"multiplier"`
	Points     float64 `json:"points"`
}

type SubmissionScore struct {
	UserID   string         `json:"user_id"`
	MatchID  string         `json:"match_id"`
	Resolved bool           `json:"resolved"`
	Players  []ScoredPlayer `json:"players"`
	Total    float64        `json:"total"`
}

type PointsQueryConfig struct {
	RuleSetName string
	Location    *time.Location
}

// PointsQueryService is the read surface over stored match points.
type PointsQueryService struct {
	players     player.Repository
	fixtures    fixture.Repository
	snapshots   matchpoints.Repository
	submissions submission.Repository
	rulesets    ruleset.Repository
	cfg         PointsQueryConfig
	logger      *logging.Logger
}

func NewPointsQueryService(
	players player.Repository,
	fixtures fixture.Repository,
	snapshots matchpoints.Repository,
	submissions submission.Repository,
	rulesets ruleset.Repository,
	cfg PointsQueryConfig,
	logger *logging.Logger,
) *PointsQueryService {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.RuleSetName) == "" {
		cfg.RuleSetName = ruleset.DefaultName
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &PointsQueryService{
		players:     players,
		fixtures:    fixtures,
		snapshots:   snapshots,
		submissions: submissions,
		rulesets:    rulesets,
		cfg:         cfg,
		logger:      logger.Named("points_query"),
	}
}

// ListPlayersWithPoints returns the pool ordered by season total descending, then name.
func (s *PointsQueryService) ListPlayersWithPoints(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsQueryService.ListPlayersWithPoints")
	defer span.End()

	players, err := s.players.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].TotalPoints != players[j].TotalPoints {
			return players[i].TotalPoints > players[j].TotalPoints
		}
		return players[i].Name < players[j].Name
	})
	return players, nil
}

func (s *PointsQueryService) PointsSince(ctx context.Context, input PointsSinceInput) (out []PlayerPointsTotal, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsQueryService.PointsSince", attribute.Int("players", len(input.PlayerIDs)))
	defer func() { finishSpan(span, err) }()

	if len(input.PlayerIDs) == 0 {
		return nil, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}
	if !input.Until.IsZero() && !input.Until.After(input.Since) {
		return nil, fmt.Errorf("%w: until must be after since", ErrInvalidInput)
	}

	players, err := s.players.GetByIDs(ctx, input.PlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}
	fixtures, err := s.fixtures.ListStartingBetween(ctx, input.Since, input.Until)
	if err != nil {
		return nil, fmt.Errorf("list fixtures in range: %w", err)
	}

	matchIDs := make([]string, 0, len(fixtures))
	for _, fx := range fixtures {
		matchIDs = append(matchIDs, fx.MatchID)
	}
	var snapshots []matchpoints.Snapshot
	if len(matchIDs) > 0 {
		snapshots, err = s.snapshots.ListByMatches(ctx, s.cfg.RuleSetName, matchIDs)
		if err != nil {
			return nil, fmt.Errorf("list snapshots in range: %w", err)
		}
	}

	return sumPlayerPoints(players, snapshots), nil
}

// DailyPoints sums points over matches that start on day's calendar date in the tournament time zone.
func (s *PointsQueryService) DailyPoints(ctx context.Context, playerIDs []string, day time.Time) ([]PlayerPointsTotal, error) {
	since, until := fixture.DayBounds(day, s.cfg.Location)
	return s.PointsSince(ctx, PointsSinceInput{PlayerIDs: playerIDs, Since: since, Until: until})
}

// ScoreSubmission scores a user's match roster with captain multipliers.
// The resolved effective roster is used when present; otherwise the submitted one.
func (s *PointsQueryService) ScoreSubmission(ctx context.Context, userID, matchID string) (score SubmissionScore, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsQueryService.ScoreSubmission", attribute.String("match_id", matchID))
	defer func() { finishSpan(span, err) }()

	sub, exists, err := s.submissions.Get(ctx, userID, matchID)
	if err != nil {
		return SubmissionScore{}, fmt.Errorf("get submission: %w", err)
	}
	if !exists {
		return SubmissionScore{}, fmt.Errorf("%w: submission user=%s match=%s", ErrNotFound, userID, matchID)
	}
	snapshot, exists, err := s.snapshots.Get(ctx, matchID, s.cfg.RuleSetName)
	if err != nil {
		return SubmissionScore{}, fmt.Errorf("get match points: %w", err)
	}
	if !exists {
		return SubmissionScore{}, fmt.Errorf("%w: match points match=%s", ErrNotFound, matchID)
	}
	rules, exists, err := s.rulesets.GetActive(ctx, s.cfg.RuleSetName)
	if err != nil {
		return SubmissionScore{}, fmt.Errorf("get ruleset: %w", err)
	}
	if !exists {
		return SubmissionScore{}, fmt.Errorf("%w: ruleset=%s", ErrNotFound, s.cfg.RuleSetName)
	}

	keys, captain, vice, err := s.scoringRoster(ctx, sub)
	if err != nil {
		return SubmissionScore{}, err
	}

	totals := snapshot.Totals()
	score = SubmissionScore{
		UserID:   sub.UserID,
		MatchID:  sub.MatchID,
		Resolved: sub.Effective != nil,
		Players:  make([]ScoredPlayer, 0, len(keys)),
	}
	for _, key := range keys {
		multiplier := 1.0
		switch key {
		case captain:
			multiplier = rules.Additional.CaptainMultiplier
		case vice:
			multiplier = rules.Additional.ViceCaptainMultiplier
		}
		base := totals[key]
		scored := ScoredPlayer{Key: key, Base: base, Multiplier: multiplier, Points: base * multiplier}
		score.Players = append(score.Players, scored)
		score.Total += scored.Points
	}
	return score, nil
}

func (s *PointsQueryService) scoringRoster(ctx context.Context, sub submission.Submission) ([]string, string, string, error) {
	if sub.Effective != nil {
		return sub.Effective.RosterKeys, sub.Effective.CaptainName, sub.Effective.ViceCaptainName, nil
	}

	players, err := s.players.GetByIDs(ctx, sub.PlayerIDs)
	if err != nil {
		return nil, "", "", fmt.Errorf("get submission players: %w", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	keys := make([]string, 0, len(sub.PlayerIDs))
	for _, id := range sub.PlayerIDs {
		p, ok := byID[id]
		if !ok {
			return nil, "", "", fmt.Errorf("%w: player=%s", ErrNotFound, id)
		}
		keys = append(keys, p.Key())
	}
	return keys, byID[sub.CaptainID].Key(), byID[sub.ViceCaptainID].Key(), nil
}

func sumPlayerPoints(players []player.Player, snapshots []matchpoints.Snapshot) []PlayerPointsTotal {
	out := make([]PlayerPointsTotal, 0, len(players))
	for _, p := range players {
		key := p.Key()
		item := PlayerPointsTotal{PlayerID: p.ID, Name: p.Name}
		for _, snapshot := range snapshots {
			if entry, ok := snapshot.Entry(key); ok {
				item.Matches++
				item.Points += entry.Total
			}
		}
		out = append(out, item)
	}
	return out
}
