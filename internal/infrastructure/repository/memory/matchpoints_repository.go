package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/matchpoints"
)

// MatchPointsRepository keeps snapshots JSON-encoded, the same way the SQL store does.
type MatchPointsRepository struct {
	mu    sync.RWMutex
	items map[string]storedSnapshot
}

type storedSnapshot struct {
	matchID     string
	ruleSetName string
	contentHash string
	payload     []byte
}

func NewMatchPointsRepository() *MatchPointsRepository {
	return &MatchPointsRepository{items: make(map[string]storedSnapshot)}
}

func (r *MatchPointsRepository) Upsert(_ context.Context, snapshot matchpoints.Snapshot) (bool, error) {
	key := snapshotKey(snapshot.MatchID, snapshot.RuleSetName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.items[key]; ok && current.contentHash == snapshot.ContentHash {
		return false, nil
	}
	payload, err := sonic.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}
	r.items[key] = storedSnapshot{
		matchID:     snapshot.MatchID,
		ruleSetName: snapshot.RuleSetName,
		contentHash: snapshot.ContentHash,
		payload:     payload,
	}
	return true, nil
}

func (r *MatchPointsRepository) Get(_ context.Context, matchID, ruleSetName string) (matchpoints.Snapshot, bool, error) {
	r.mu.RLock()
	stored, ok := r.items[snapshotKey(matchID, ruleSetName)]
	r.mu.RUnlock()
	if !ok {
		return matchpoints.Snapshot{}, false, nil
	}

	out, err := decodeSnapshot(stored.payload)
	if err != nil {
		return matchpoints.Snapshot{}, false, err
	}
	return out, true, nil
}

func (r *MatchPointsRepository) ListByRuleSet(_ context.Context, ruleSetName string) ([]matchpoints.Snapshot, error) {
	return r.list(func(s storedSnapshot) bool { return s.ruleSetName == ruleSetName })
}

func (r *MatchPointsRepository) ListByMatches(_ context.Context, ruleSetName string, matchIDs []string) ([]matchpoints.Snapshot, error) {
	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}
	return r.list(func(s storedSnapshot) bool {
		if s.ruleSetName != ruleSetName {
			return false
		}
		_, ok := wanted[s.matchID]
		return ok
	})
}

// Raw returns the stored encoding of a snapshot.
func (r *MatchPointsRepository) Raw(matchID, ruleSetName string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.items[snapshotKey(matchID, ruleSetName)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), stored.payload...), true
}

func (r *MatchPointsRepository) list(keep func(storedSnapshot) bool) ([]matchpoints.Snapshot, error) {
	r.mu.RLock()
	matched := make([]storedSnapshot, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			matched = append(matched, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].matchID < matched[j].matchID })
	out := make([]matchpoints.Snapshot, 0, len(matched))
	for _, item := range matched {
		snapshot, err := decodeSnapshot(item.payload)
		if err != nil {
			return nil, err
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func decodeSnapshot(payload []byte) (matchpoints.Snapshot, error) {
	var out matchpoints.Snapshot
	if err := sonic.Unmarshal(payload, &out); err != nil {
		return matchpoints.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return out, nil
}

func snapshotKey(matchID, ruleSetName string) string {
	return matchID + "::" + ruleSetName
}
