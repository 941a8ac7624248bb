// Package proc tracks the simulated processes behind windows so the
// shell's ps/kill commands and the window manager's close path agree on
// what is running.
package proc

import (
	"sort"
	"sync"
	"time"
)

// Process is one entry in the table.
type Process struct {
	PID      int
	Name     string
	WindowID string
	Started  time.Time
	cancel   func()
}

// Table is the process registry. PIDs start at 1000 and never recycle.
type Table struct {
	mu      sync.Mutex
	nextPID int
	procs   map[int]*Process
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{nextPID: 1000, procs: make(map[int]*Process)}
}

// Spawn registers a process and returns its PID. The cancel func is
// invoked exactly once when the process is killed; nil is allowed.
func (t *Table) Spawn(name, windowID string, cancel func()) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	pid := t.nextPID
	t.nextPID++
	t.procs[pid] = &Process{
		PID:      pid,
		Name:     name,
		WindowID: windowID,
		Started:  time.Now(),
		cancel:   cancel,
	}
	return pid
}

// Kill removes the process and runs its cancel func. Returns false when
// the PID is unknown.
func (t *Table) Kill(pid int) bool {
	t.mu.Lock()
	p, ok := t.procs[pid]
	if ok {
		delete(t.procs, pid)
	}
	t.mu.Unlock()

	if !ok {
		return false
	}
	if p.cancel != nil {
		p.cancel()
	}
	return true
}

// Lookup returns the process with the given PID.
func (t *Table) Lookup(pid int) (Process, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.procs[pid]
	if !ok {
		return Process{}, false
	}
	return *p, true
}

// List returns all processes sorted by PID.
func (t *Table) List() []Process {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Process, 0, len(t.procs))
	for _, p := range t.procs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}
