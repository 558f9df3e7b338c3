package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/submission"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
)

// SubmissionRepository shares the team store so Commit is atomic across both.
type SubmissionRepository struct {
	mu    sync.RWMutex
	teams *TeamRepository
	items map[string]submission.Submission
}

func NewSubmissionRepository(teams *TeamRepository) *SubmissionRepository {
	return &SubmissionRepository{
		teams: teams,
		items: make(map[string]submission.Submission),
	}
}

func (r *SubmissionRepository) Get(_ context.Context, userID, matchID string) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[submissionKey(userID, matchID)]
	if !ok {
		return submission.Submission{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *SubmissionRepository) ListByMatch(_ context.Context, matchID string) ([]submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]submission.Submission, 0)
	for _, item := range r.items {
		if item.MatchID == matchID {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *SubmissionRepository) GetByMatchDate(_ context.Context, userID, matchDate string) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var earliest submission.Submission
	found := false
	for _, item := range r.items {
		if item.UserID != userID || item.MatchDate != matchDate {
			continue
		}
		if !found || item.SubmittedAt.Before(earliest.SubmittedAt) {
			earliest = item
			found = true
		}
	}
	if !found {
		return submission.Submission{}, false, nil
	}
	return earliest.Clone(), true, nil
}

func (r *SubmissionRepository) LatestBefore(_ context.Context, userID string, before time.Time, sources ...submission.Source) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest submission.Submission
	found := false
	for _, item := range r.items {
		if item.UserID != userID || !item.SubmittedAt.Before(before) {
			continue
		}
		if len(sources) > 0 && !slices.Contains(sources, item.Source) {
			continue
		}
		if !found || item.SubmittedAt.After(latest.SubmittedAt) {
			latest = item
			found = true
		}
	}
	if !found {
		return submission.Submission{}, false, nil
	}
	return latest.Clone(), true, nil
}

func (r *SubmissionRepository) SuperSubUsedOn(_ context.Context, userID, matchDate, excludeMatchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.MatchDate == matchDate && item.MatchID != excludeMatchID && item.SuperSubID != "" {
			return true, nil
		}
	}
	return false, nil
}

func (r *SubmissionRepository) Commit(_ context.Context, sub submission.Submission, t team.Team, expectedVersion int64) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("invalid submission: %w", err)
	}

	r.teams.mu.Lock()
	defer r.teams.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	key := submissionKey(sub.UserID, sub.MatchID)
	if _, exists := r.items[key]; exists {
		return submission.ErrDuplicate
	}
	if err := r.teams.swapLocked(t, expectedVersion); err != nil {
		return err
	}
	r.items[key] = sub.Clone()
	return nil
}

func (r *SubmissionRepository) InsertMany(_ context.Context, subs []submission.Submission) ([]submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := make([]submission.Submission, 0, len(subs))
	for _, sub := range subs {
		if err := sub.Validate(); err != nil {
			return nil, fmt.Errorf("invalid submission: %w", err)
		}
		key := submissionKey(sub.UserID, sub.MatchID)
		if _, exists := r.items[key]; exists {
			continue
		}
		r.items[key] = sub.Clone()
		inserted = append(inserted, sub.Clone())
	}
	return inserted, nil
}

func (r *SubmissionRepository) AttachEffective(_ context.Context, userID, matchID string, effective submission.Effective) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := submissionKey(userID, matchID)
	item, ok := r.items[key]
	if !ok {
		return fmt.Errorf("submission user=%s match=%s not found", userID, matchID)
	}
	eff := effective
	eff.RosterKeys = append([]string(nil), effective.RosterKeys...)
	item.Effective = &eff
	r.items[key] = item
	return nil
}

func submissionKey(userID, matchID string) string {
	return userID + "::" + matchID
}
