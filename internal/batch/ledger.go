package batch

import (
	"sync"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

// Status is the terminal or in-flight state of one ledger entry.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Entry is one item's ledger record.
type Entry struct {
	ID           string
	Status       Status
	ArtifactPath string
	ErrorKind    errs.Kind
	Attempts     int
}

// Ledger is the append-only (per-entry-mutate-in-place), lock-guarded
// result table the orchestrator writes to. Entries are pre-seeded in
// input order at construction so reads always see every item, preserving
// input order in the ledger even though completion order is arbitrary
// (spec §4.9).
type Ledger struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*Entry
}

func NewLedger(items []Item) *Ledger {
	l := &Ledger{
		order:   make([]string, 0, len(items)),
		entries: make(map[string]*Entry, len(items)),
	}
	for _, it := range items {
		l.order = append(l.order, it.ID)
		l.entries[it.ID] = &Entry{ID: it.ID, Status: StatusPending}
	}
	return l
}

// Update mutates one entry under the lock. mutate must not block or
// re-enter the ledger.
func (l *Ledger) Update(id string, mutate func(*Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		mutate(e)
	}
}

// Snapshot returns a copy of every entry in input order.
func (l *Ledger) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	return out
}
