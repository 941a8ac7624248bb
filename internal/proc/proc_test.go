package proc_test

import (
	"testing"

	"hackdesk/internal/proc"
)

func TestSpawnAssignsIncreasingPIDs(t *testing.T) {
	table := proc.NewTable()

	first := table.Spawn("shell", "win-1", nil)
	second := table.Spawn("shell", "win-2", nil)

	if second <= first {
		t.Errorf("expected increasing PIDs, got %d then %d", first, second)
	}
	if first < 1000 {
		t.Errorf("PIDs should start at 1000, got %d", first)
	}
}

func TestKillRunsCancelOnce(t *testing.T) {
	table := proc.NewTable()

	calls := 0
	pid := table.Spawn("shell", "win-1", func() { calls++ })

	if !table.Kill(pid) {
		t.Fatal("Kill returned false for live process")
	}
	if calls != 1 {
		t.Errorf("cancel ran %d times, want 1", calls)
	}

	// Killing again is a no-op.
	if table.Kill(pid) {
		t.Error("Kill returned true for dead process")
	}
	if calls != 1 {
		t.Errorf("cancel ran %d times after double kill, want 1", calls)
	}
}

func TestKillUnknownPID(t *testing.T) {
	table := proc.NewTable()
	if table.Kill(4242) {
		t.Error("Kill returned true for unknown PID")
	}
}

func TestListSorted(t *testing.T) {
	table := proc.NewTable()
	table.Spawn("a", "w1", nil)
	table.Spawn("b", "w2", nil)
	table.Spawn("c", "w3", nil)

	procs := table.List()
	if len(procs) != 3 {
		t.Fatalf("got %d processes, want 3", len(procs))
	}
	for i := 1; i < len(procs); i++ {
		if procs[i].PID <= procs[i-1].PID {
			t.Errorf("list not sorted: %d before %d", procs[i-1].PID, procs[i].PID)
		}
	}
}

func TestLookup(t *testing.T) {
	table := proc.NewTable()
	pid := table.Spawn("editor", "win-9", nil)

	p, ok := table.Lookup(pid)
	if !ok {
		t.Fatal("Lookup failed for live process")
	}
	if p.Name != "editor" || p.WindowID != "win-9" {
		t.Errorf("unexpected process %+v", p)
	}

	if _, ok := table.Lookup(9999); ok {
		t.Error("Lookup succeeded for unknown PID")
	}
}
