package serialize

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/pmcgrab/internal/models"
)

func TestStreamWriterWritesOneLinePerDocument(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)

	d1 := sampleDocument()
	d2 := sampleDocument()
	d2.PMCID = "9999999"

	require.NoError(t, w.WriteDocument(d1))
	require.NoError(t, w.WriteDocument(d2))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "7181753", first["pmc_id"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "9999999", second["pmc_id"])
}

func TestStreamWriterConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := models.NewDocument()
			d.PMCID = "doc"
			require.NoError(t, w.WriteDocument(d))
		}(i)
	}
	wg.Wait()
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, n)
	for _, line := range lines {
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &decoded), "line must be valid, unbroken JSON: %q", line)
	}
}
