package batch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

func TestNewLedgerSeedsPendingInInputOrder(t *testing.T) {
	items := []Item{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	l := NewLedger(items)

	snap := l.Snapshot()
	require := assert.New(t)
	require.Len(snap, 3)
	require.Equal("b", snap[0].ID)
	require.Equal("a", snap[1].ID)
	require.Equal("c", snap[2].ID)
	for _, e := range snap {
		require.Equal(StatusPending, e.Status)
	}
}

func TestLedgerUpdateMutatesInPlace(t *testing.T) {
	l := NewLedger([]Item{{ID: "a"}})
	l.Update("a", func(e *Entry) {
		e.Status = StatusFailed
		e.ErrorKind = errs.NetworkError
		e.Attempts = 3
	})

	snap := l.Snapshot()
	assert.Equal(t, StatusFailed, snap[0].Status)
	assert.Equal(t, errs.NetworkError, snap[0].ErrorKind)
	assert.Equal(t, 3, snap[0].Attempts)
}

func TestLedgerUpdateIgnoresUnknownID(t *testing.T) {
	l := NewLedger([]Item{{ID: "a"}})
	assert.NotPanics(t, func() {
		l.Update("missing", func(e *Entry) { e.Status = StatusSucceeded })
	})
}

func TestLedgerConcurrentUpdatesAreSafe(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id}
	}
	l := NewLedger(items)

	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				l.Update(id, func(e *Entry) { e.Attempts++ })
			}(id)
		}
	}
	wg.Wait()

	for _, e := range l.Snapshot() {
		assert.Equal(t, 20, e.Attempts)
	}
}
