package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/syncattempt"
)

type SyncAttemptRepository struct {
	mu    sync.Mutex
	items map[string]syncattempt.Attempt
}

func NewSyncAttemptRepository() *SyncAttemptRepository {
	return &SyncAttemptRepository{items: make(map[string]syncattempt.Attempt)}
}

func (r *SyncAttemptRepository) Claim(_ context.Context, attempt syncattempt.Attempt) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attemptKey(attempt.MatchID, attempt.Offset)
	if _, exists := r.items[key]; exists {
		return false, nil
	}
	r.items[key] = attempt
	return true, nil
}

func (r *SyncAttemptRepository) Complete(_ context.Context, matchID string, offset int, status syncattempt.Status, errMsg string, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attemptKey(matchID, offset)
	item, ok := r.items[key]
	if !ok {
		return fmt.Errorf("sync attempt match=%s offset=%d not claimed", matchID, offset)
	}
	if !item.FinishedAt.IsZero() {
		return fmt.Errorf("sync attempt match=%s offset=%d already finished", matchID, offset)
	}
	item.Status = status
	item.Error = errMsg
	item.FinishedAt = finishedAt
	r.items[key] = item
	return nil
}

func (r *SyncAttemptRepository) ListByMatch(_ context.Context, matchID string) ([]syncattempt.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]syncattempt.Attempt, 0)
	for _, item := range r.items {
		if item.MatchID == matchID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out, nil
}

func attemptKey(matchID string, offset int) string {
	return fmt.Sprintf("%s::%d", matchID, offset)
}
