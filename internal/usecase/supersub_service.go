package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/supersub"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

type SuperSubConfig struct {
	RuleSetName string
	Workers     int
}

type ResolveMatchResult struct {
	Submissions int `json:"submissions"`
	Applied     int `json:"applied"`
	Failed      int `json:"failed"`
}

type SuperSubService struct {
	submissions submission.Repository
	fixtures    fixture.Repository
	players     player.Repository
	snapshots   matchpoints.Repository
	cfg         SuperSubConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewSuperSubService(
	submissions submission.Repository,
	fixtures fixture.Repository,
	players player.Repository,
	snapshots matchpoints.Repository,
	cfg SuperSubConfig,
	logger *logging.Logger,
) *SuperSubService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &SuperSubService{
		submissions: submissions,
		fixtures:    fixtures,
		players:     players,
		snapshots:   snapshots,
		cfg:         cfg,
		logger:      logger.Named("supersub"),
		now:         time.Now,
	}
}

// ResolveForSubmission resolves one user's super-sub for a match and stores the effective roster.
func (s *SuperSubService) ResolveForSubmission(ctx context.Context, userID, matchID string) (effective submission.Effective, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SuperSubService.ResolveForSubmission", attribute.String("match_id", matchID))
	defer func() { finishSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	matchID = strings.TrimSpace(matchID)
	if userID == "" || matchID == "" {
		return submission.Effective{}, fmt.Errorf("%w: user id and match id are required", ErrInvalidInput)
	}

	sub, exists, err := s.submissions.Get(ctx, userID, matchID)
	if err != nil {
		return submission.Effective{}, fmt.Errorf("get submission: %w", err)
	}
	if !exists {
		return submission.Effective{}, fmt.Errorf("%w: submission user=%s match=%s", ErrNotFound, userID, matchID)
	}

	fx, snapshot, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return submission.Effective{}, err
	}
	return s.resolve(ctx, sub, fx, snapshot)
}

// ResolveMatch resolves every submission of a match on a bounded worker pool.
func (s *SuperSubService) ResolveMatch(ctx context.Context, matchID string) (result ResolveMatchResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SuperSubService.ResolveMatch", attribute.String("match_id", matchID))
	defer func() { finishSpan(span, err) }()

	fx, snapshot, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return ResolveMatchResult{}, err
	}

	subs, err := s.submissions.ListByMatch(ctx, matchID)
	if err != nil {
		return ResolveMatchResult{}, fmt.Errorf("list submissions match=%s: %w", matchID, err)
	}
	result.Submissions = len(subs)
	if len(subs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return ResolveMatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var appliedCount atomic.Int32
	var failedCount atomic.Int32
	var workers sync.WaitGroup
	for _, sub := range subs {
		sub := sub
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			effective, err := s.resolve(ctx, sub, fx, snapshot)
			if err != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "resolve super-sub failed",
					"match_id", matchID,
					"user_id", sub.UserID,
					"error", err,
				)
				return
			}
			if effective.Applied {
				appliedCount.Add(1)
			}
		}); err != nil {
			workers.Done()
			return ResolveMatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Applied = int(appliedCount.Load())
	result.Failed = int(failedCount.Load())
	s.logger.InfoContext(ctx, "super-sub resolution finished",
		"match_id", matchID,
		"submissions", result.Submissions,
		"applied", result.Applied,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *SuperSubService) loadMatch(ctx context.Context, matchID string) (fixture.Fixture, matchpoints.Snapshot, error) {
	fx, exists, err := s.fixtures.GetByID(ctx, matchID)
	if err != nil {
		return fixture.Fixture{}, matchpoints.Snapshot{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, matchpoints.Snapshot{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, matchID)
	}

	snapshot, exists, err := s.snapshots.Get(ctx, matchID, s.cfg.RuleSetName)
	if err != nil {
		return fixture.Fixture{}, matchpoints.Snapshot{}, fmt.Errorf("get match points: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, matchpoints.Snapshot{}, fmt.Errorf("%w: match points match=%s ruleset=%s", ErrNotFound, matchID, s.cfg.RuleSetName)
	}
	return fx, snapshot, nil
}

func (s *SuperSubService) resolve(ctx context.Context, sub submission.Submission, fx fixture.Fixture, snapshot matchpoints.Snapshot) (submission.Effective, error) {
	ids := append([]string(nil), sub.PlayerIDs...)
	if sub.SuperSubID != "" {
		ids = append(ids, sub.SuperSubID)
	}
	players, err := s.players.GetByIDs(ctx, ids)
	if err != nil {
		return submission.Effective{}, fmt.Errorf("get submission players: %w", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	in := supersub.Input{
		Roster:        make([]supersub.Member, 0, len(sub.PlayerIDs)),
		CaptainID:     sub.CaptainID,
		ViceCaptainID: sub.ViceCaptainID,
		HomeCountry:   fx.HomeCountry,
		AwayCountry:   fx.AwayCountry,
		PlayingXI:     snapshot.PlayingXI,
		BaseTotals:    snapshot.Totals(),
	}
	for _, id := range sub.PlayerIDs {
		p, ok := byID[id]
		if !ok {
			return submission.Effective{}, fmt.Errorf("%w: player=%s", ErrNotFound, id)
		}
		in.Roster = append(in.Roster, supersub.Member{PlayerID: p.ID, Name: p.Name, Country: p.Country})
	}
	if sub.SuperSubID != "" {
		if p, ok := byID[sub.SuperSubID]; ok {
			in.SuperSub = &supersub.Member{PlayerID: p.ID, Name: p.Name, Country: p.Country}
		}
	}

	resolution := supersub.Resolve(in)
	effective := submission.Effective{
		RosterKeys:      resolution.EffectiveRosterKeys,
		CaptainName:     resolution.EffectiveCaptainName,
		ViceCaptainName: resolution.EffectiveViceCaptainName,
		Applied:         resolution.Applied,
		Engaged:         resolution.Engaged,
		ReplacedName:    resolution.ReplacedName,
		SuperSubName:    resolution.SuperSubName,
		ResolvedAt:      s.now().UTC(),
	}
	if err := s.submissions.AttachEffective(ctx, sub.UserID, sub.MatchID, effective); err != nil {
		return submission.Effective{}, fmt.Errorf("attach effective roster user=%s match=%s: %w", sub.UserID, sub.MatchID, err)
	}

	s.logger.DebugContext(ctx, "super-sub resolved",
		"user_id", sub.UserID,
		"match_id", sub.MatchID,
		"applied", resolution.Applied,
		"skip", string(resolution.Skip),
	)
	return effective, nil
}
