package team

import (
	"context"
	"time"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	// Update stores team with Version expectedVersion+1 when the stored version
	// equals expectedVersion, and returns ErrVersionConflict otherwise.
	Update(ctx context.Context, team Team, expectedVersion int64) error
	// AdvancePointer moves the last-submitted pointer to matchID only when
	// matchStartAt is later than the stored LastSubmittedMatchAt. A move bumps
	// Version so a concurrent Update holding the old pointer conflicts.
	AdvancePointer(ctx context.Context, teamID, matchID string, matchStartAt time.Time) error
}
