package syncattempt

import (
	"context"
	"time"
)

type Repository interface {
	// Claim inserts attempt and reports whether this caller won the (MatchID, Offset) slot.
	Claim(ctx context.Context, attempt Attempt) (bool, error)
	// Complete finishes a claimed attempt once; a finished attempt is never rewritten.
	Complete(ctx context.Context, matchID string, offset int, status Status, errMsg string, finishedAt time.Time) error
	ListByMatch(ctx context.Context, matchID string) ([]Attempt, error)
}
