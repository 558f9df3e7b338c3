package team

import (
	"errors"
	"fmt"
	"time"
)

// Phase is the transfer-budget regime a team is in.
type Phase string

const (
	PhaseGroup Phase = "GROUP"
	PhaseFinal Phase = "FINAL"
)

var (
	ErrLedgerOrder     = errors.New("transfer ledger round out of order")
	ErrVersionConflict = errors.New("team version conflict")
)

// LedgerEntry counts the transfers made in one round.
type LedgerEntry struct {
	Round int `json:"round"`
	Count int `json:"count"`
}

// Team is a user's live fantasy roster and transfer state.
type Team struct {
	ID            string
	UserID        string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	SuperSubID    string

	Phase             Phase
	LockedInLeague    bool
	TransfersUsed     int
	TransferLimit     int
	Ledger            []LedgerEntry
	FinalResetApplied bool

	LastSubmittedMatchID string
	// LastSubmittedMatchAt is the start time of LastSubmittedMatchID.
	LastSubmittedMatchAt time.Time

	// Version is bumped by every committed write; zero means not yet stored.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("team user id is required")
	}
	if t.Phase != PhaseGroup && t.Phase != PhaseFinal {
		return fmt.Errorf("invalid team phase: %s", t.Phase)
	}
	if t.TransfersUsed < 0 || t.TransferLimit < 0 {
		return fmt.Errorf("transfer counters must be >= 0")
	}
	return nil
}

// RecordTransfers adds count transfers for round. Entries stay ordered by round;
// a repeat of the latest round merges into it and an earlier round is rejected.
func (t *Team) RecordTransfers(round, count int) error {
	if count < 0 {
		return fmt.Errorf("transfer count must be >= 0, got %d", count)
	}
	if count == 0 {
		return nil
	}

	if n := len(t.Ledger); n > 0 {
		last := &t.Ledger[n-1]
		switch {
		case round < last.Round:
			return fmt.Errorf("%w: round=%d latest=%d", ErrLedgerOrder, round, last.Round)
		case round == last.Round:
			last.Count += count
			t.TransfersUsed += count
			return nil
		}
	}

	t.Ledger = append(t.Ledger, LedgerEntry{Round: round, Count: count})
	t.TransfersUsed += count
	return nil
}

// EnterPhase moves the team into phase. The GROUP to FINAL transition clears
// the ledger and installs finalLimit, and happens at most once per team.
func (t *Team) EnterPhase(phase Phase, finalLimit int) bool {
	if phase != PhaseFinal || t.Phase == PhaseFinal || t.FinalResetApplied {
		return false
	}
	t.Phase = PhaseFinal
	t.Ledger = nil
	t.TransfersUsed = 0
	t.TransferLimit = finalLimit
	t.FinalResetApplied = true
	return true
}

// RemainingTransfers never goes below zero.
func (t Team) RemainingTransfers() int {
	if left := t.TransferLimit - t.TransfersUsed; left > 0 {
		return left
	}
	return 0
}

// Clone returns a deep copy.
func (t Team) Clone() Team {
	out := t
	out.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	out.Ledger = append([]LedgerEntry(nil), t.Ledger...)
	return out
}

// CountTransfers returns how many ids in next were not in prev.
func CountTransfers(prev, next []string) int {
	previous := make(map[string]struct{}, len(prev))
	for _, id := range prev {
		previous[id] = struct{}{}
	}
	count := 0
	for _, id := range next {
		if _, ok := previous[id]; !ok {
			count++
		}
	}
	return count
}
