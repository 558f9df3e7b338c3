package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	idgen "github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// SubmitTeamInput is the incoming payload for a match submission.
type SubmitTeamInput struct {
	UserID        string   `validate:"required"`
	MatchID       string   `validate:"required"`
	TeamName      string   `validate:"omitempty,max=100"`
	PlayerIDs     []string `validate:"required,len=11,unique,dive,required"`
	CaptainID     string   `validate:"required"`
	ViceCaptainID string   `validate:"required"`
	SuperSubID    string
}

type SubmitTeamResult struct {
	Submission          submission.Submission `json:"submission"`
	Phase               team.Phase            `json:"phase"`
	TransfersUsed       int                   `json:"transfers_used"`
	TransferLimit       int                   `json:"transfer_limit"`
	TransfersRemaining  int                   `json:"transfers_remaining"`
	TransfersThisAction int                   `json:"transfers_this_action"`
	Ledger              []team.LedgerEntry    `json:"ledger"`
}

type TeamSubmissionConfig struct {
	Blackout           time.Duration
	Grace              time.Duration
	CASRetries         int
	GroupTransferLimit int
	FinalTransferLimit int
	Location           *time.Location
}

type TeamSubmissionService struct {
	fixtures    fixture.Repository
	players     player.Repository
	teams       team.Repository
	submissions submission.Repository
	rules       fantasy.Rules
	cfg         TeamSubmissionConfig
	idGen       idgen.Generator
	validate    *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

func NewTeamSubmissionService(
	fixtures fixture.Repository,
	players player.Repository,
	teams team.Repository,
	submissions submission.Repository,
	rules fantasy.Rules,
	cfg TeamSubmissionConfig,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TeamSubmissionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CASRetries < 0 {
		cfg.CASRetries = 0
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &TeamSubmissionService{
		fixtures:    fixtures,
		players:     players,
		teams:       teams,
		submissions: submissions,
		rules:       rules,
		cfg:         cfg,
		idGen:       idGen,
		validate:    validator.New(),
		logger:      logger.Named("team_submission"),
		now:         time.Now,
	}
}

// Submit validates and commits a roster for one match, returning the committed transfer state.
func (s *TeamSubmissionService) Submit(ctx context.Context, input SubmitTeamInput) (result SubmitTeamResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSubmissionService.Submit", attribute.String("match_id", input.MatchID))
	defer func() { finishSpan(span, err) }()

	input = normalizeSubmitInput(input)
	if err := s.validateInput(ctx, input); err != nil {
		return SubmitTeamResult{}, err
	}

	fx, exists, err := s.fixtures.GetByID(ctx, input.MatchID)
	if err != nil {
		return SubmitTeamResult{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return SubmitTeamResult{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, input.MatchID)
	}

	now := s.now().UTC()
	if err := s.checkLockout(fx, now); err != nil {
		return SubmitTeamResult{}, err
	}

	if err := s.checkNotSubmitted(ctx, input, fx); err != nil {
		return SubmitTeamResult{}, err
	}

	if err := s.validateRoster(ctx, input); err != nil {
		return SubmitTeamResult{}, err
	}

	for attempt := 0; attempt <= s.cfg.CASRetries; attempt++ {
		result, err = s.commit(ctx, input, fx, now)
		if err == nil {
			s.logger.InfoContext(ctx, "team submitted",
				"user_id", input.UserID,
				"match_id", input.MatchID,
				"phase", string(result.Phase),
				"transfers_used", result.TransfersUsed,
				"transfers_this_action", result.TransfersThisAction,
			)
			return result, nil
		}
		if errors.Is(err, submission.ErrDuplicate) {
			return SubmitTeamResult{}, fmt.Errorf("%w: user=%s already submitted for match=%s", ErrConflict, input.UserID, input.MatchID)
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return SubmitTeamResult{}, err
		}
		s.logger.WarnContext(ctx, "team version conflict, retrying submission",
			"user_id", input.UserID,
			"match_id", input.MatchID,
			"attempt", attempt+1,
		)
	}

	return SubmitTeamResult{}, fmt.Errorf("%w: team of user=%s changed concurrently", ErrConflict, input.UserID)
}

// SetLeagueLock toggles transfer enforcement for the user's team.
func (s *TeamSubmissionService) SetLeagueLock(ctx context.Context, userID string, locked bool) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSubmissionService.SetLeagueLock")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return team.Team{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	for attempt := 0; attempt <= s.cfg.CASRetries; attempt++ {
		current, exists, err := s.teams.GetByUserID(ctx, userID)
		if err != nil {
			return team.Team{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return team.Team{}, fmt.Errorf("%w: team of user=%s", ErrNotFound, userID)
		}
		if current.LockedInLeague == locked {
			return current, nil
		}

		next := current.Clone()
		next.LockedInLeague = locked
		next.UpdatedAt = s.now().UTC()
		err = s.teams.Update(ctx, next, current.Version)
		if err == nil {
			next.Version = current.Version + 1
			return next, nil
		}
		if !errors.Is(err, team.ErrVersionConflict) {
			return team.Team{}, fmt.Errorf("update team: %w", err)
		}
	}
	return team.Team{}, fmt.Errorf("%w: team of user=%s changed concurrently", ErrConflict, userID)
}

func (s *TeamSubmissionService) validateInput(ctx context.Context, input SubmitTeamInput) error {
	err := s.validate.StructCtx(ctx, input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			if fieldErr.Field() != "PlayerIDs" {
				continue
			}
			switch fieldErr.Tag() {
			case "len", "required":
				return newValidationError(ReasonSquadSize, "roster must contain exactly %d players", s.rules.SquadSize)
			case "unique":
				return newValidationError(ReasonDuplicatePlayer, "roster contains duplicate players")
			}
		}
	}
	return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
}

func (s *TeamSubmissionService) checkLockout(fx fixture.Fixture, now time.Time) error {
	opens := fx.StartAt.Add(-s.cfg.Blackout)
	closes := fx.StartAt.Add(s.cfg.Grace)
	switch {
	case now.After(closes):
		return newValidationError(ReasonMatchStarted, "match %s started at %s", fx.MatchID, fx.StartAt.Format(time.RFC3339))
	case !now.Before(opens):
		return newValidationError(ReasonLockoutWindow, "submissions for match %s are locked until %s", fx.MatchID, closes.Format(time.RFC3339))
	}
	return nil
}

// checkNotSubmitted allows one submission per user and match date, whatever its source.
func (s *TeamSubmissionService) checkNotSubmitted(ctx context.Context, input SubmitTeamInput, fx fixture.Fixture) error {
	matchDate := fx.MatchDate(s.cfg.Location)
	existing, submitted, err := s.submissions.GetByMatchDate(ctx, input.UserID, matchDate)
	if err != nil {
		return fmt.Errorf("get existing submission: %w", err)
	}
	if !submitted {
		return nil
	}
	if existing.MatchID == input.MatchID {
		return fmt.Errorf("%w: user=%s already submitted for match=%s", ErrConflict, input.UserID, input.MatchID)
	}
	return fmt.Errorf("%w: user=%s already submitted for match date=%s (match=%s)", ErrConflict, input.UserID, matchDate, existing.MatchID)
}

func (s *TeamSubmissionService) validateRoster(ctx context.Context, input SubmitTeamInput) error {
	ids := append([]string(nil), input.PlayerIDs...)
	if input.SuperSubID != "" {
		ids = append(ids, input.SuperSubID)
	}
	players, err := s.players.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get players by ids: %w", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	roster := make([]player.Player, 0, len(input.PlayerIDs))
	inRoster := make(map[string]struct{}, len(input.PlayerIDs))
	for _, id := range input.PlayerIDs {
		p, ok := byID[id]
		if !ok {
			return newValidationError(ReasonUnknownPlayer, "player %s not found", id)
		}
		roster = append(roster, p)
		inRoster[id] = struct{}{}
	}

	if input.CaptainID == input.ViceCaptainID {
		return newValidationError(ReasonCaptaincy, "captain and vice-captain must differ")
	}
	if _, ok := inRoster[input.CaptainID]; !ok {
		return newValidationError(ReasonCaptaincy, "captain %s is not in the roster", input.CaptainID)
	}
	if _, ok := inRoster[input.ViceCaptainID]; !ok {
		return newValidationError(ReasonCaptaincy, "vice-captain %s is not in the roster", input.ViceCaptainID)
	}

	if input.SuperSubID != "" {
		if _, ok := inRoster[input.SuperSubID]; ok {
			return newValidationError(ReasonSuperSub, "super-sub %s is already in the roster", input.SuperSubID)
		}
		if _, ok := byID[input.SuperSubID]; !ok {
			return newValidationError(ReasonSuperSub, "super-sub %s not found", input.SuperSubID)
		}
	}

	if err := fantasy.ValidateRoster(roster, s.rules); err != nil {
		return rosterValidationError(err)
	}
	return nil
}

func (s *TeamSubmissionService) commit(ctx context.Context, input SubmitTeamInput, fx fixture.Fixture, now time.Time) (SubmitTeamResult, error) {
	current, exists, err := s.teams.GetByUserID(ctx, input.UserID)
	if err != nil {
		return SubmitTeamResult{}, fmt.Errorf("get team: %w", err)
	}

	// A concurrent submission for the same date bumps the team version, so
	// retries observe it here.
	if err := s.checkNotSubmitted(ctx, input, fx); err != nil {
		return SubmitTeamResult{}, err
	}

	var expectedVersion int64
	next := current.Clone()
	if exists {
		expectedVersion = current.Version
	} else {
		teamID, err := s.idGen.NewID()
		if err != nil {
			return SubmitTeamResult{}, fmt.Errorf("generate team id: %w", err)
		}
		next = team.Team{
			ID:            teamID,
			UserID:        input.UserID,
			Phase:         team.PhaseGroup,
			TransferLimit: s.cfg.GroupTransferLimit,
			CreatedAt:     now,
		}
	}
	if input.TeamName != "" {
		next.Name = input.TeamName
	}

	if fx.Stage == fixture.StageFinal && next.EnterPhase(team.PhaseFinal, s.cfg.FinalTransferLimit) {
		s.logger.InfoContext(ctx, "team entered final phase, transfer ledger reset",
			"user_id", input.UserID,
			"team_id", next.ID,
		)
	}

	transfers := 0
	if exists && next.LockedInLeague {
		transfers = team.CountTransfers(current.PlayerIDs, input.PlayerIDs)
		if next.TransfersUsed+transfers > next.TransferLimit {
			return SubmitTeamResult{}, newValidationError(ReasonTransferLimit,
				"transfers used=%d this action=%d exceed limit=%d", next.TransfersUsed, transfers, next.TransferLimit)
		}
		if err := next.RecordTransfers(fx.Round, transfers); err != nil {
			if errors.Is(err, team.ErrLedgerOrder) {
				return SubmitTeamResult{}, newValidationError(ReasonRoundOrder, "%v", err)
			}
			return SubmitTeamResult{}, fmt.Errorf("record transfers: %w", err)
		}
	}

	next.PlayerIDs = append([]string(nil), input.PlayerIDs...)
	next.CaptainID = input.CaptainID
	next.ViceCaptainID = input.ViceCaptainID
	next.SuperSubID = input.SuperSubID
	next.UpdatedAt = now
	if !fx.StartAt.Before(next.LastSubmittedMatchAt) {
		next.LastSubmittedMatchID = fx.MatchID
		next.LastSubmittedMatchAt = fx.StartAt
	}
	if err := next.Validate(); err != nil {
		return SubmitTeamResult{}, fmt.Errorf("validate team: %w", err)
	}

	subID, err := s.idGen.NewID()
	if err != nil {
		return SubmitTeamResult{}, fmt.Errorf("generate submission id: %w", err)
	}
	sub := submission.Submission{
		ID:            subID,
		UserID:        input.UserID,
		TeamID:        next.ID,
		MatchID:       fx.MatchID,
		MatchDate:     fx.MatchDate(s.cfg.Location),
		MatchStartAt:  fx.StartAt,
		PlayerIDs:     append([]string(nil), input.PlayerIDs...),
		CaptainID:     input.CaptainID,
		ViceCaptainID: input.ViceCaptainID,
		SuperSubID:    input.SuperSubID,
		Source:        submission.SourceManual,
		SubmittedAt:   now,
	}

	if err := s.submissions.Commit(ctx, sub, next, expectedVersion); err != nil {
		if errors.Is(err, team.ErrVersionConflict) || errors.Is(err, submission.ErrDuplicate) {
			return SubmitTeamResult{}, err
		}
		return SubmitTeamResult{}, fmt.Errorf("commit submission: %w", err)
	}

	return SubmitTeamResult{
		Submission:          sub,
		Phase:               next.Phase,
		TransfersUsed:       next.TransfersUsed,
		TransferLimit:       next.TransferLimit,
		TransfersRemaining:  next.RemainingTransfers(),
		TransfersThisAction: transfers,
		Ledger:              append([]team.LedgerEntry(nil), next.Ledger...),
	}, nil
}

func rosterValidationError(err error) error {
	switch {
	case errors.Is(err, fantasy.ErrInvalidSquadSize):
		return newValidationError(ReasonSquadSize, "%v", err)
	case errors.Is(err, fantasy.ErrDuplicatePlayerInSquad):
		return newValidationError(ReasonDuplicatePlayer, "%v", err)
	case errors.Is(err, fantasy.ErrExceededCountryLimit):
		return newValidationError(ReasonCountryCap, "%v", err)
	case errors.Is(err, fantasy.ErrExceededBudget):
		return newValidationError(ReasonBudget, "%v", err)
	case errors.Is(err, fantasy.ErrRoleBand), errors.Is(err, fantasy.ErrUnknownPlayerRole):
		return newValidationError(ReasonRoleBand, "%v", err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}

func normalizeSubmitInput(input SubmitTeamInput) SubmitTeamInput {
	input.UserID = strings.TrimSpace(input.UserID)
	input.MatchID = strings.TrimSpace(input.MatchID)
	input.TeamName = strings.TrimSpace(input.TeamName)
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	input.ViceCaptainID = strings.TrimSpace(input.ViceCaptainID)
	input.SuperSubID = strings.TrimSpace(input.SuperSubID)
	ids := make([]string, len(input.PlayerIDs))
	for i, id := range input.PlayerIDs {
		ids[i] = strings.TrimSpace(id)
	}
	input.PlayerIDs = ids
	return input
}
