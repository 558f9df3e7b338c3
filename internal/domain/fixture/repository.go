package fixture

import (
	"context"
	"time"
)

// Repository exposes fixture read operations. List results are ordered by StartAt ascending.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Fixture, bool, error)
	List(ctx context.Context) ([]Fixture, error)
	// ListStartedBy returns fixtures with StartAt <= at.
	ListStartedBy(ctx context.Context, at time.Time) ([]Fixture, error)
	// ListStartingBetween returns fixtures with StartAt in [since, until). A zero until is unbounded.
	ListStartingBetween(ctx context.Context, since, until time.Time) ([]Fixture, error)
}
