package submission

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
)

// Repository describes submission persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, userID, matchID string) (Submission, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Submission, error)
	// GetByMatchDate returns the user's earliest submission on matchDate.
	GetByMatchDate(ctx context.Context, userID, matchDate string) (Submission, bool, error)
	// LatestBefore returns the user's most recent submission with SubmittedAt strictly before before.
	// Non-empty sources restrict the lookup to those sources.
	LatestBefore(ctx context.Context, userID string, before time.Time, sources ...Source) (Submission, bool, error)
	// SuperSubUsedOn reports whether another submission by userID on matchDate designates a super-sub.
	SuperSubUsedOn(ctx context.Context, userID, matchDate, excludeMatchID string) (bool, error)
	// Commit atomically stores t with Version expectedVersion+1 (compare-and-swap,
	// zero meaning insert) and inserts sub. It returns team.ErrVersionConflict or ErrDuplicate.
	Commit(ctx context.Context, sub Submission, t team.Team, expectedVersion int64) error
	// InsertMany skips rows whose (UserID, MatchID) already exists and returns the inserted rows.
	InsertMany(ctx context.Context, subs []Submission) ([]Submission, error)
	AttachEffective(ctx context.Context, userID, matchID string, effective Effective) error
}
