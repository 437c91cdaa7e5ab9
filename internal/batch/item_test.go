package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemIsLocal(t *testing.T) {
	assert.True(t, Item{ID: "a", LocalPath: "/tmp/a.xml"}.IsLocal())
	assert.False(t, Item{ID: "a", PMCID: "1"}.IsLocal())
}

func TestDedupPreserveOrderKeepsFirstOccurrence(t *testing.T) {
	items := []Item{
		{ID: "1", PMCID: "1"},
		{ID: "2", PMCID: "2"},
		{ID: "1", PMCID: "1-duplicate"},
		{ID: "3", PMCID: "3"},
	}
	got := DedupPreserveOrder(items)
	assert.Equal(t, []Item{
		{ID: "1", PMCID: "1"},
		{ID: "2", PMCID: "2"},
		{ID: "3", PMCID: "3"},
	}, got)
}
