package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	idgen "github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

type AutoSubmitConfig struct {
	Location       *time.Location
	PointerWorkers int
}

type AutoSubmitResult struct {
	Matches          int `json:"matches"`
	Inserted         int `json:"inserted"`
	AlreadySubmitted int `json:"already_submitted"`
	SkippedNewTeams  int `json:"skipped_new_teams"`
	PointersAdvanced int `json:"pointers_advanced"`
}

// AutoSubmissionService fills missing match submissions from each team's most recent roster.
type AutoSubmissionService struct {
	fixtures    fixture.Repository
	teams       team.Repository
	submissions submission.Repository
	cfg         AutoSubmitConfig
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewAutoSubmissionService(
	fixtures fixture.Repository,
	teams team.Repository,
	submissions submission.Repository,
	cfg AutoSubmitConfig,
	idGen idgen.Generator,
	logger *logging.Logger,
) *AutoSubmissionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PointerWorkers <= 0 {
		cfg.PointerWorkers = 4
	}
	return &AutoSubmissionService{
		fixtures:    fixtures,
		teams:       teams,
		submissions: submissions,
		cfg:         cfg,
		idGen:       idGen,
		logger:      logger.Named("auto_submit"),
		now:         time.Now,
	}
}

type pointerTarget struct {
	teamID  string
	matchID string
	startAt time.Time
}

func (s *AutoSubmissionService) Run(ctx context.Context) (result AutoSubmitResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AutoSubmissionService.Run")
	defer func() { finishSpan(span, err) }()

	now := s.now().UTC()
	fixtures, err := s.fixtures.ListStartedBy(ctx, now)
	if err != nil {
		return AutoSubmitResult{}, fmt.Errorf("list started fixtures: %w", err)
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return AutoSubmitResult{}, fmt.Errorf("list teams: %w", err)
	}
	result.Matches = len(fixtures)
	if len(fixtures) == 0 || len(teams) == 0 {
		return result, nil
	}

	pointers := make(map[string]pointerTarget, len(teams))
	for _, fx := range fixtures {
		inserted, existing, skipped, err := s.fillMatch(ctx, fx, teams, now)
		if err != nil {
			return result, fmt.Errorf("auto-submit match=%s: %w", fx.MatchID, err)
		}
		result.Inserted += len(inserted)
		result.AlreadySubmitted += existing
		result.SkippedNewTeams += skipped
		for _, sub := range inserted {
			pointers[sub.TeamID] = pointerTarget{teamID: sub.TeamID, matchID: sub.MatchID, startAt: sub.MatchStartAt}
		}
	}

	advanced, err := s.advancePointers(ctx, pointers)
	result.PointersAdvanced = advanced
	if err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "auto-submission finished",
		"matches", result.Matches,
		"inserted", result.Inserted,
		"already_submitted", result.AlreadySubmitted,
		"skipped_new_teams", result.SkippedNewTeams,
		"pointers_advanced", result.PointersAdvanced,
	)
	return result, nil
}

func (s *AutoSubmissionService) fillMatch(ctx context.Context, fx fixture.Fixture, teams []team.Team, now time.Time) ([]submission.Submission, int, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AutoSubmissionService.fillMatch", attribute.String("match_id", fx.MatchID))
	defer span.End()

	matchDate := fx.MatchDate(s.cfg.Location)
	pending := make([]submission.Submission, 0, len(teams))
	existing, skipped := 0, 0
	for _, t := range teams {
		if !t.CreatedAt.Before(fx.StartAt) {
			skipped++
			continue
		}
		_, exists, err := s.submissions.Get(ctx, t.UserID, fx.MatchID)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("get submission user=%s: %w", t.UserID, err)
		}
		if exists {
			existing++
			continue
		}
		if len(t.PlayerIDs) == 0 {
			skipped++
			continue
		}

		sub, err := s.carryForward(ctx, t, fx, matchDate, now)
		if err != nil {
			return nil, 0, 0, err
		}
		pending = append(pending, sub)
	}
	if len(pending) == 0 {
		return nil, existing, skipped, nil
	}

	inserted, err := s.submissions.InsertMany(ctx, pending)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("insert auto submissions: %w", err)
	}
	existing += len(pending) - len(inserted)
	return inserted, existing, skipped, nil
}

func (s *AutoSubmissionService) carryForward(ctx context.Context, t team.Team, fx fixture.Fixture, matchDate string, now time.Time) (submission.Submission, error) {
	source := submission.Submission{
		PlayerIDs:     t.PlayerIDs,
		CaptainID:     t.CaptainID,
		ViceCaptainID: t.ViceCaptainID,
		SuperSubID:    t.SuperSubID,
	}
	latest, found, err := s.submissions.LatestBefore(ctx, t.UserID, fx.StartAt)
	if err != nil {
		return submission.Submission{}, fmt.Errorf("latest submission user=%s: %w", t.UserID, err)
	}
	if found {
		source = latest
	}

	superSubID, err := s.designatedSuperSub(ctx, t, source, fx.StartAt)
	if err != nil {
		return submission.Submission{}, err
	}
	if superSubID != "" {
		used, err := s.submissions.SuperSubUsedOn(ctx, t.UserID, matchDate, fx.MatchID)
		if err != nil {
			return submission.Submission{}, fmt.Errorf("check super-sub usage user=%s: %w", t.UserID, err)
		}
		if used {
			superSubID = ""
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return submission.Submission{}, fmt.Errorf("generate submission id: %w", err)
	}
	return submission.Submission{
		ID:            id,
		UserID:        t.UserID,
		TeamID:        t.ID,
		MatchID:       fx.MatchID,
		MatchDate:     matchDate,
		MatchStartAt:  fx.StartAt,
		PlayerIDs:     append([]string(nil), source.PlayerIDs...),
		CaptainID:     source.CaptainID,
		ViceCaptainID: source.ViceCaptainID,
		SuperSubID:    superSubID,
		Source:        submission.SourceAuto,
		SubmittedAt:   now,
	}, nil
}

// designatedSuperSub returns the super-sub the user last chose. An auto row may
// have had its super-sub cleared for its own date, so the choice comes from the
// latest manual submission, or from the live team when there is none.
func (s *AutoSubmissionService) designatedSuperSub(ctx context.Context, t team.Team, source submission.Submission, before time.Time) (string, error) {
	if source.Source != submission.SourceAuto {
		return source.SuperSubID, nil
	}
	manual, found, err := s.submissions.LatestBefore(ctx, t.UserID, before, submission.SourceManual)
	if err != nil {
		return "", fmt.Errorf("latest manual submission user=%s: %w", t.UserID, err)
	}
	if found {
		return manual.SuperSubID, nil
	}
	return t.SuperSubID, nil
}

func (s *AutoSubmissionService) advancePointers(ctx context.Context, pointers map[string]pointerTarget) (int, error) {
	if len(pointers) == 0 {
		return 0, nil
	}

	var advanced atomic.Int32
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.cfg.PointerWorkers)
	for _, target := range pointers {
		target := target
		p.Go(func(ctx context.Context) error {
			if err := s.teams.AdvancePointer(ctx, target.teamID, target.matchID, target.startAt); err != nil {
				return fmt.Errorf("advance pointer team=%s: %w", target.teamID, err)
			}
			advanced.Add(1)
			return nil
		})
	}
	err := p.Wait()
	return int(advanced.Load()), err
}
