package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	byUser map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{byUser: make(map[string]team.Team)}
}

func (r *TeamRepository) GetByUserID(_ context.Context, userID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byUser[userID]
	if !ok {
		return team.Team{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byUser))
	for _, item := range r.byUser {
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Update(_ context.Context, t team.Team, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.swapLocked(t, expectedVersion)
}

func (r *TeamRepository) AdvancePointer(_ context.Context, teamID, matchID string, matchStartAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, item := range r.byUser {
		if item.ID != teamID {
			continue
		}
		if !matchStartAt.After(item.LastSubmittedMatchAt) {
			return nil
		}
		item.LastSubmittedMatchID = matchID
		item.LastSubmittedMatchAt = matchStartAt
		item.Version++
		r.byUser[userID] = item
		return nil
	}
	return fmt.Errorf("team %s not found", teamID)
}

// swapLocked stores t when the stored version matches; the caller holds mu.
func (r *TeamRepository) swapLocked(t team.Team, expectedVersion int64) error {
	current, exists := r.byUser[t.UserID]
	switch {
	case !exists && expectedVersion != 0:
		return team.ErrVersionConflict
	case exists && current.Version != expectedVersion:
		return team.ErrVersionConflict
	}

	stored := t.Clone()
	stored.Version = expectedVersion + 1
	r.byUser[t.UserID] = stored
	return nil
}
