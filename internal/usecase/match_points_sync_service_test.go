package usecase

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scorecard"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	matchpointsmock "github.com/riskibarqy/fantasy-cricket/internal/mocks/domain/matchpoints"
	playermock "github.com/riskibarqy/fantasy-cricket/internal/mocks/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

const completedScorecard = `{
  "status": "success",
  "data": {
    "matchEnded": true,
    "scorecard": [
      {
        "inning": "India Inning 1",
        "batting": [
          {"batsman": {"name": "Virat Kohli"}, "dismissal-text": "c Head b Starc", "r": 50, "b": 25}
        ],
        "bowling": [
          {"bowler": {"name": "Mitchell Starc"}, "o": 4, "m": 0, "r": 36, "w": 1, "0s": 8}
        ],
        "catching": [
          {"catcher": {"name": "Travis Head"}, "catch": 1}
        ]
      }
    ]
  }
}`

const liveScorecard = `{
  "scorecard": [
    {"inning": "India Inning 1", "batting": [{"batsman": "Rohit Sharma", "r": 10, "b": 8, "dismissal-text": "batting"}]}
  ]
}`

type fakeMatchProvider struct {
	matches    []ProviderMatch
	listErr    error
	info       map[string]ProviderMatchInfo
	scorecards map[string]string
}

func (p *fakeMatchProvider) ListSeriesMatches(_ context.Context, _ string) ([]ProviderMatch, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.matches, nil
}

func (p *fakeMatchProvider) FetchMatchInfo(_ context.Context, matchID string) (ProviderMatchInfo, error) {
	info, ok := p.info[matchID]
	if !ok {
		return ProviderMatchInfo{ID: matchID}, nil
	}
	return info, nil
}

func (p *fakeMatchProvider) FetchScorecard(_ context.Context, matchID string) ([]byte, error) {
	raw, ok := p.scorecards[matchID]
	if !ok {
		return nil, errors.New("scorecard not published")
	}
	return []byte(raw), nil
}

func newSyncFixture(t *testing.T, provider MatchProvider) (*MatchPointsSyncService, *memory.MatchPointsRepository, *memory.PlayerRepository) {
	t.Helper()

	snapshots := memory.NewMatchPointsRepository()
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	service := NewMatchPointsSyncService(
		provider,
		memory.NewRuleSetRepository(ruleset.Default()),
		snapshots,
		players,
		MatchPointsSyncConfig{SeriesID: memory.SeedSeriesID, SeriesName: memory.SeedSeriesName},
		logging.NewNop(),
	)
	return service, snapshots, players
}

func TestMatchPointsSyncService_SyncIsIdempotent(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{
		matches: []ProviderMatch{
			{ID: "t20wc-2026-m01", SeriesID: memory.SeedSeriesID, Status: "India won by 20 runs"},
			{ID: "other-series", SeriesID: "ipl-2026", SeriesName: "Indian Premier League"},
		},
		info: map[string]ProviderMatchInfo{
			"t20wc-2026-m01": {
				ID:        "t20wc-2026-m01",
				Completed: true,
				PlayingXI: []string{"Virat Kohli", "Mitchell Starc", "Travis Head"},
			},
		},
		scorecards: map[string]string{"t20wc-2026-m01": completedScorecard},
	}
	service, snapshots, players := newSyncFixture(t, provider)

	firstNow := time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return firstNow }

	first, err := service.Sync(t.Context())
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.InScope != 1 || first.Updated != 1 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	stored, ok := snapshots.Raw("t20wc-2026-m01", ruleset.DefaultName)
	if !ok {
		t.Fatalf("snapshot not stored")
	}

	service.now = func() time.Time { return firstNow.Add(3 * time.Hour) }
	second, err := service.Sync(t.Context())
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.Unchanged != 1 || second.Updated != 0 {
		t.Fatalf("unexpected second result: %+v", second)
	}
	again, _ := snapshots.Raw("t20wc-2026-m01", ruleset.DefaultName)
	if !bytes.Equal(stored, again) {
		t.Fatalf("snapshot bytes changed on unchanged resync")
	}

	got, err := players.GetByIDs(t.Context(), []string{"ind-02"})
	if err != nil || len(got) != 1 {
		t.Fatalf("get kohli: %v", err)
	}
	if got[0].TotalPoints != 68 {
		t.Fatalf("unexpected season total: got=%v want=68", got[0].TotalPoints)
	}
}

func TestMatchPointsSyncService_SkipsIncompleteAndUnrecognizedMatches(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{
		matches: []ProviderMatch{
			{ID: "live", SeriesID: memory.SeedSeriesID, Status: "India need 40 runs"},
			{ID: "garbled", SeriesID: memory.SeedSeriesID, Completed: true},
			{ID: "missing", SeriesID: memory.SeedSeriesID, Completed: true},
		},
		scorecards: map[string]string{
			"live":    liveScorecard,
			"garbled": `{"score": [1, 2, 3]}`,
		},
	}
	service, snapshots, _ := newSyncFixture(t, provider)

	result, err := service.Sync(t.Context())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Incomplete != 1 || result.BadShape != 1 || result.Failed != 1 || result.Updated != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, ok := snapshots.Raw("live", ruleset.DefaultName); ok {
		t.Fatalf("incomplete match must not be stored")
	}
}

func TestMatchPointsSyncService_ListFailureIsProviderUnavailable(t *testing.T) {
	t.Parallel()

	service, _, _ := newSyncFixture(t, &fakeMatchProvider{listErr: errors.New("connection refused")})
	if _, err := service.Sync(t.Context()); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
}

func TestMatchPointsSyncService_SyncMatchDerivesLineupFromScorecard(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{scorecards: map[string]string{"m-adhoc": completedScorecard}}
	service, snapshots, _ := newSyncFixture(t, provider)

	outcome, err := service.SyncMatch(t.Context(), "m-adhoc")
	if err != nil {
		t.Fatalf("sync match: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("unexpected outcome: got=%s want=%s", outcome, OutcomeUpdated)
	}
	snapshot, ok, err := snapshots.Get(t.Context(), "m-adhoc", ruleset.DefaultName)
	if err != nil || !ok {
		t.Fatalf("get snapshot: ok=%v err=%v", ok, err)
	}
	if len(snapshot.Warnings) == 0 {
		t.Fatalf("expected a derived-lineup warning")
	}
	if !slices.Contains(snapshot.PlayingXI, "virat kohli") {
		t.Fatalf("expected kohli in derived lineup: %v", snapshot.PlayingXI)
	}
}

func TestMatchPointsSyncService_RecomputeSeasonTotalsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	isCtx := mock.MatchedBy(func(v context.Context) bool { return v != nil })
	snapshotRepo := matchpointsmock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	snapshotRepo.
		On("ListByRuleSet", isCtx, ruleset.DefaultName).
		Return([]matchpoints.Snapshot{
			{MatchID: "m1", Points: nil},
			{MatchID: "m2"},
		}, nil).
		Once()
	playerRepo.
		On("ListAll", isCtx).
		Return([]player.Player{{ID: "ind-02", Name: "Virat Kohli"}}, nil).
		Once()
	playerRepo.
		On("UpdateTotals", isCtx, map[string]float64{"ind-02": 0}).
		Return(nil).
		Once()

	service := NewMatchPointsSyncService(nil, nil, snapshotRepo, playerRepo, MatchPointsSyncConfig{}, nil)
	written, err := service.RecomputeSeasonTotals(ctx)
	if err != nil {
		t.Fatalf("recompute totals: %v", err)
	}
	if written != 1 {
		t.Fatalf("unexpected players written: got=%d want=1", written)
	}
}

func TestMatchPointsSyncService_InScope(t *testing.T) {
	t.Parallel()

	service := &MatchPointsSyncService{cfg: MatchPointsSyncConfig{SeriesID: "t20wc-2026", SeriesName: "ICC Men's T20 World Cup 2026"}}
	cases := []struct {
		name  string
		match ProviderMatch
		want  bool
	}{
		{name: "series id", match: ProviderMatch{SeriesID: "t20wc-2026", SeriesName: "renamed"}, want: true},
		{name: "name fallback ignores case", match: ProviderMatch{SeriesName: "icc MEN'S t20 world cup 2026"}, want: true},
		{name: "name fallback trims", match: ProviderMatch{SeriesName: "  ICC Men's T20 World Cup 2026 "}, want: true},
		{name: "no series metadata", match: ProviderMatch{ID: "bare"}, want: true},
		{name: "other series id", match: ProviderMatch{SeriesID: "ipl-2026"}, want: false},
		{name: "other series name", match: ProviderMatch{SeriesName: "Indian Premier League"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := service.inScope(tc.match); got != tc.want {
				t.Fatalf("unexpected scope: got=%v want=%v match=%+v", got, tc.want, tc.match)
			}
		})
	}

	nameless := &MatchPointsSyncService{cfg: MatchPointsSyncConfig{SeriesID: "t20wc-2026"}}
	if nameless.inScope(ProviderMatch{SeriesName: "ICC Men's T20 World Cup 2026"}) {
		t.Fatalf("name fallback needs a configured series name")
	}
}

func TestMatchCompleted(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		match ProviderMatch
		info  ProviderMatchInfo
		card  scorecard.Scorecard
		want  bool
	}{
		{name: "list flag", match: ProviderMatch{Completed: true}, want: true},
		{name: "info flag only", info: ProviderMatchInfo{Completed: true}, want: true},
		{name: "scorecard root flag", card: scorecard.Scorecard{Ended: true}, want: true},
		{name: "list status", match: ProviderMatch{Status: "Australia won by 6 wickets"}, want: true},
		{name: "info status", info: ProviderMatchInfo{Status: "No result"}, want: true},
		{name: "in progress", match: ProviderMatch{Status: "India need 40 runs"}, info: ProviderMatchInfo{Status: "Innings break"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchCompleted(tc.match, tc.info, tc.card); got != tc.want {
				t.Fatalf("unexpected completion: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestMatchPointsSyncService_SyncUsesInfoCompletionAndNameScope(t *testing.T) {
	t.Parallel()

	card := strings.Replace(completedScorecard, `"matchEnded": true,`, "", 1)
	provider := &fakeMatchProvider{
		matches: []ProviderMatch{
			{ID: "by-name", SeriesName: strings.ToUpper(memory.SeedSeriesName)},
		},
		info: map[string]ProviderMatchInfo{
			"by-name": {ID: "by-name", Completed: true, PlayingXI: []string{"Virat Kohli", "Mitchell Starc", "Travis Head"}},
		},
		scorecards: map[string]string{"by-name": card},
	}
	service, snapshots, _ := newSyncFixture(t, provider)

	result, err := service.Sync(t.Context())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.InScope != 1 || result.Updated != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, ok := snapshots.Raw("by-name", ruleset.DefaultName); !ok {
		t.Fatalf("snapshot not stored for match completed by match info")
	}
}
