package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/syncattempt"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

type MatchSyncer interface {
	SyncMatch(ctx context.Context, matchID string) (MatchSyncOutcome, error)
}

type MatchResolver interface {
	ResolveMatch(ctx context.Context, matchID string) (ResolveMatchResult, error)
}

type SyncSchedulerConfig struct {
	MatchDuration time.Duration
	Offsets       []syncattempt.Offset
}

type SchedulerResult struct {
	Considered int `json:"considered"`
	Due        int `json:"due"`
	Claimed    int `json:"claimed"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
}

// SyncSchedulerService runs at most one sync per (match, offset) once a match has ended.
type SyncSchedulerService struct {
	fixtures fixture.Repository
	attempts syncattempt.Repository
	syncer   MatchSyncer
	resolver MatchResolver
	cfg      SyncSchedulerConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewSyncSchedulerService(
	fixtures fixture.Repository,
	attempts syncattempt.Repository,
	syncer MatchSyncer,
	resolver MatchResolver,
	cfg SyncSchedulerConfig,
	logger *logging.Logger,
) *SyncSchedulerService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MatchDuration <= 0 {
		cfg.MatchDuration = 4 * time.Hour
	}
	if len(cfg.Offsets) == 0 {
		cfg.Offsets = syncattempt.DefaultOffsets()
	}
	return &SyncSchedulerService{
		fixtures: fixtures,
		attempts: attempts,
		syncer:   syncer,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger.Named("sync_scheduler"),
		now:      time.Now,
	}
}

func (s *SyncSchedulerService) Run(ctx context.Context) (result SchedulerResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncSchedulerService.Run")
	defer func() { finishSpan(span, err) }()

	now := s.now().UTC()
	started, err := s.fixtures.ListStartedBy(ctx, now)
	if err != nil {
		return SchedulerResult{}, fmt.Errorf("list started fixtures: %w", err)
	}
	result.Considered = len(started)

	for _, fx := range started {
		end := fx.EndAt(s.cfg.MatchDuration)
		for idx, offset := range s.cfg.Offsets {
			if !offset.Due(end, now) {
				continue
			}
			result.Due++

			claimed, err := s.attempts.Claim(ctx, syncattempt.Attempt{
				MatchID:     fx.MatchID,
				Offset:      idx,
				Status:      syncattempt.StatusRunning,
				AttemptedAt: now,
			})
			if err != nil {
				return result, fmt.Errorf("claim sync attempt match=%s offset=%d: %w", fx.MatchID, idx, err)
			}
			if !claimed {
				continue
			}
			result.Claimed++

			if s.runAttempt(ctx, fx.MatchID, idx) {
				result.Succeeded++
			} else {
				result.Failed++
			}
		}
	}

	if result.Claimed > 0 {
		s.logger.InfoContext(ctx, "scheduled sync finished",
			"considered", result.Considered,
			"due", result.Due,
			"claimed", result.Claimed,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
		)
	}
	return result, nil
}

func (s *SyncSchedulerService) runAttempt(ctx context.Context, matchID string, offset int) bool {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncSchedulerService.runAttempt",
		attribute.String("match_id", matchID),
		attribute.Int("offset", offset),
	)
	defer span.End()

	status := syncattempt.StatusSucceeded
	errMsg := ""
	outcome, err := s.syncer.SyncMatch(ctx, matchID)
	switch {
	case err != nil:
		status, errMsg = syncattempt.StatusFailed, err.Error()
	case outcome == OutcomeIncomplete || outcome == OutcomeBadShape:
		status, errMsg = syncattempt.StatusFailed, string(outcome)
	}

	if status == syncattempt.StatusSucceeded && s.resolver != nil {
		if _, err := s.resolver.ResolveMatch(ctx, matchID); err != nil {
			s.logger.ErrorContext(ctx, "resolve super-subs after sync failed", "match_id", matchID, "error", err)
		}
	}

	if err := s.attempts.Complete(ctx, matchID, offset, status, errMsg, s.now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "record sync attempt outcome failed",
			"match_id", matchID,
			"offset", offset,
			"error", err,
		)
	}
	if status == syncattempt.StatusFailed {
		s.logger.WarnContext(ctx, "scheduled sync attempt failed",
			"match_id", matchID,
			"offset", offset,
			"reason", errMsg,
		)
		return false
	}
	return true
}
