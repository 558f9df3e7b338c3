package team

import (
	"errors"
	"testing"
)

func TestRecordTransfers_AccumulatesOrderedLedger(t *testing.T) {
	t.Parallel()

	tm := Team{Phase: PhaseGroup, TransferLimit: 10}
	steps := []struct {
		round int
		count int
	}{
		{round: 1, count: 2},
		{round: 1, count: 1},
		{round: 2, count: 0},
		{round: 3, count: 4},
	}
	for _, step := range steps {
		if err := tm.RecordTransfers(step.round, step.count); err != nil {
			t.Fatalf("record round=%d: %v", step.round, err)
		}
	}

	want := []LedgerEntry{{Round: 1, Count: 3}, {Round: 3, Count: 4}}
	if len(tm.Ledger) != len(want) {
		t.Fatalf("unexpected ledger: got=%v want=%v", tm.Ledger, want)
	}
	for i := range want {
		if tm.Ledger[i] != want[i] {
			t.Fatalf("unexpected ledger entry %d: got=%v want=%v", i, tm.Ledger[i], want[i])
		}
	}
	if tm.TransfersUsed != 7 {
		t.Fatalf("unexpected transfers used: got=%d want=7", tm.TransfersUsed)
	}
	if tm.RemainingTransfers() != 3 {
		t.Fatalf("unexpected remaining: got=%d want=3", tm.RemainingTransfers())
	}
}

func TestRecordTransfers_RejectsEarlierRound(t *testing.T) {
	t.Parallel()

	tm := Team{Ledger: []LedgerEntry{{Round: 4, Count: 1}}, TransfersUsed: 1}
	if err := tm.RecordTransfers(3, 1); !errors.Is(err, ErrLedgerOrder) {
		t.Fatalf("expected ErrLedgerOrder, got %v", err)
	}
	if tm.TransfersUsed != 1 {
		t.Fatalf("rejected write must not change counters")
	}
	if err := tm.RecordTransfers(5, -1); err == nil {
		t.Fatalf("expected error for negative count")
	}
}

func TestEnterPhase_ResetsExactlyOnce(t *testing.T) {
	t.Parallel()

	tm := Team{Phase: PhaseGroup, TransferLimit: 30, TransfersUsed: 12, Ledger: []LedgerEntry{{Round: 1, Count: 12}}}
	if tm.EnterPhase(PhaseGroup, 5) {
		t.Fatalf("group phase must not reset")
	}
	if !tm.EnterPhase(PhaseFinal, 5) {
		t.Fatalf("expected first final transition to reset")
	}
	if tm.TransfersUsed != 0 || len(tm.Ledger) != 0 || tm.TransferLimit != 5 || !tm.FinalResetApplied {
		t.Fatalf("unexpected state after reset: %+v", tm)
	}

	if err := tm.RecordTransfers(8, 2); err != nil {
		t.Fatalf("record after reset: %v", err)
	}
	if tm.EnterPhase(PhaseFinal, 5) {
		t.Fatalf("second final transition must be a no-op")
	}
	if tm.TransfersUsed != 2 {
		t.Fatalf("unexpected transfers after repeated transition: got=%d want=2", tm.TransfersUsed)
	}
}

func TestCountTransfers(t *testing.T) {
	t.Parallel()

	prev := []string{"a", "b", "c"}
	if got := CountTransfers(prev, []string{"c", "b", "a"}); got != 0 {
		t.Fatalf("reordering is not a transfer: got=%d", got)
	}
	if got := CountTransfers(prev, []string{"a", "x", "y"}); got != 2 {
		t.Fatalf("unexpected transfers: got=%d want=2", got)
	}
	if got := CountTransfers(nil, []string{"a", "b"}); got != 2 {
		t.Fatalf("unexpected transfers from empty roster: got=%d want=2", got)
	}
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	tm := Team{PlayerIDs: []string{"a"}, Ledger: []LedgerEntry{{Round: 1, Count: 1}}}
	cp := tm.Clone()
	cp.PlayerIDs[0] = "z"
	cp.Ledger[0].Count = 9
	if tm.PlayerIDs[0] != "a" || tm.Ledger[0].Count != 1 {
		t.Fatalf("clone shares backing arrays")
	}
}
