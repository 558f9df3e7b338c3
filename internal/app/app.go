package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cricket/external/cricapi"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/fixture"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/syncattempt"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	cacherepo "github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type Repositories struct {
	Players     player.Repository
	Fixtures    fixture.Repository
	Teams       team.Repository
	Submissions submission.Repository
	RuleSets    ruleset.Repository
	Snapshots   matchpoints.Repository
	Attempts    syncattempt.Repository
}

// App holds the wired services for one process.
type App struct {
	Repositories Repositories

	TeamSubmission *usecase.TeamSubmissionService
	AutoSubmission *usecase.AutoSubmissionService
	MatchSync      *usecase.MatchPointsSyncService
	SuperSub       *usecase.SuperSubService
	Scheduler      *usecase.SyncSchedulerService
	PointsQuery    *usecase.PointsQueryService

	db *sqlx.DB
}

type Option func(*options)

type options struct {
	provider usecase.MatchProvider
}

// WithProvider replaces the CricAPI client, mainly for tests.
func WithProvider(provider usecase.MatchProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{}
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		if cfg.DBSeedOnStart {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("seed database: %w", err)
			}
		}
		a.Repositories = postgresRepositories(db)
	case config.StorageMemory, "":
		a.Repositories = memoryRepositories()
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		a.Repositories.Fixtures = cacherepo.NewFixtureRepository(a.Repositories.Fixtures, store)
		a.Repositories.Players = cacherepo.NewPlayerRepository(a.Repositories.Players, store)
		a.Repositories.RuleSets = cacherepo.NewRuleSetRepository(a.Repositories.RuleSets, store)
	}

	if err := ensureRuleSet(ctx, a.Repositories.RuleSets, cfg.RuleSetName); err != nil {
		_ = a.Close()
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider = cricapi.NewClient(cricapi.ClientConfig{
			BaseURL:      cfg.CricAPIBaseURL,
			APIKey:       cfg.CricAPIKey,
			Timeout:      cfg.CricAPITimeout,
			MaxRetries:   cfg.CricAPIMaxRetries,
			RetryBackoff: cfg.CricAPIRetryBackoff,
			Logger:       logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.CricAPICircuitEnabled,
				FailureThreshold: cfg.CricAPICircuitFailureCount,
				OpenTimeout:      cfg.CricAPICircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.CricAPICircuitHalfOpenMaxReq,
			},
		})
	}

	repos := a.Repositories
	a.TeamSubmission = usecase.NewTeamSubmissionService(
		repos.Fixtures,
		repos.Players,
		repos.Teams,
		repos.Submissions,
		fantasy.DefaultRules(),
		usecase.TeamSubmissionConfig{
			Blackout:           cfg.SubmissionBlackout,
			Grace:              cfg.SubmissionGrace,
			CASRetries:         cfg.SubmissionCASRetries,
			GroupTransferLimit: cfg.TransferLimitGroup,
			FinalTransferLimit: cfg.TransferLimitFinal,
			Location:           cfg.TournamentLocation,
		},
		idgen.NewUUIDGenerator("sub"),
		logger,
	)
	a.AutoSubmission = usecase.NewAutoSubmissionService(
		repos.Fixtures,
		repos.Teams,
		repos.Submissions,
		usecase.AutoSubmitConfig{
			Location:       cfg.TournamentLocation,
			PointerWorkers: cfg.PointerWorkers,
		},
		idgen.NewUUIDGenerator("auto"),
		logger,
	)
	a.MatchSync = usecase.NewMatchPointsSyncService(
		provider,
		repos.RuleSets,
		repos.Snapshots,
		repos.Players,
		usecase.MatchPointsSyncConfig{
			SeriesID:     cfg.TournamentSeriesID,
			SeriesName:   cfg.TournamentSeriesName,
			RuleSetName:  cfg.RuleSetName,
			MatchTimeout: cfg.SyncMatchTimeout,
		},
		logger,
	)
	a.SuperSub = usecase.NewSuperSubService(
		repos.Submissions,
		repos.Fixtures,
		repos.Players,
		repos.Snapshots,
		usecase.SuperSubConfig{
			RuleSetName: cfg.RuleSetName,
			Workers:     cfg.SuperSubWorkers,
		},
		logger,
	)
	a.Scheduler = usecase.NewSyncSchedulerService(
		repos.Fixtures,
		repos.Attempts,
		a.MatchSync,
		a.SuperSub,
		usecase.SyncSchedulerConfig{
			MatchDuration: cfg.MatchDuration,
			Offsets:       cfg.SyncOffsets,
		},
		logger,
	)
	a.PointsQuery = usecase.NewPointsQueryService(
		repos.Players,
		repos.Fixtures,
		repos.Snapshots,
		repos.Submissions,
		repos.RuleSets,
		usecase.PointsQueryConfig{
			RuleSetName: cfg.RuleSetName,
			Location:    cfg.TournamentLocation,
		},
		logger,
	)

	logger.Info("app wired",
		"storage_driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"ruleset", cfg.RuleSetName,
		"series_id", cfg.TournamentSeriesID,
	)
	return a, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func memoryRepositories() Repositories {
	teams := memory.NewTeamRepository()
	return Repositories{
		Players:     memory.NewPlayerRepository(memory.SeedPlayers()),
		Fixtures:    memory.NewFixtureRepository(memory.SeedFixtures()),
		Teams:       teams,
		Submissions: memory.NewSubmissionRepository(teams),
		RuleSets:    memory.NewRuleSetRepository(),
		Snapshots:   memory.NewMatchPointsRepository(),
		Attempts:    memory.NewSyncAttemptRepository(),
	}
}

func postgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Players:     postgres.NewPlayerRepository(db),
		Fixtures:    postgres.NewFixtureRepository(db),
		Teams:       postgres.NewTeamRepository(db),
		Submissions: postgres.NewSubmissionRepository(db),
		RuleSets:    postgres.NewRuleSetRepository(db),
		Snapshots:   postgres.NewMatchPointsRepository(db),
		Attempts:    postgres.NewSyncAttemptRepository(db),
	}
}

// ensureRuleSet creates the built-in rule set on first start. Any other name must already be stored.
func ensureRuleSet(ctx context.Context, repo ruleset.Repository, name string) error {
	if name == "" {
		name = ruleset.DefaultName
	}

	_, exists, err := repo.GetActive(ctx, name)
	if err != nil {
		return fmt.Errorf("load rule set %q: %w", name, err)
	}
	if exists {
		return nil
	}
	if name != ruleset.DefaultName {
		return fmt.Errorf("rule set %q is not stored", name)
	}

	err = repo.Create(ctx, ruleset.Default())
	if err != nil && !errors.Is(err, ruleset.ErrAlreadyExists) {
		return fmt.Errorf("create default rule set: %w", err)
	}
	return nil
}
