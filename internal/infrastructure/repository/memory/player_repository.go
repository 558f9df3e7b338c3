package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	order   []string
	players map[string]player.Player
	now     func() time.Time
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		order:   make([]string, 0, len(players)),
		players: make(map[string]player.Player, len(players)),
		now:     time.Now,
	}
	for _, p := range players {
		if _, exists := r.players[p.ID]; !exists {
			r.order = append(r.order, p.ID)
		}
		r.players[p.ID] = p
	}
	return r
}

func (r *PlayerRepository) ListAll(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PlayerRepository) UpdateTotals(_ context.Context, totals map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	for id, total := range totals {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		p.TotalPoints = total
		p.UpdatedAt = now
		r.players[id] = p
	}
	return nil
}
