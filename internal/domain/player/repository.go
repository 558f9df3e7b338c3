package player

import "context"

// Repository describes player pool persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	// UpdateTotals overwrites season totals keyed by player id.
	UpdateTotals(ctx context.Context, totals map[string]float64) error
}
