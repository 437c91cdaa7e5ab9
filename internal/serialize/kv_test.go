package serialize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteItemNamesFileByPMCID(t *testing.T) {
	dir := t.TempDir()
	d := sampleDocument()

	path, err := WriteItem(dir, d)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "PMC7181753.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "7181753", decoded["pmc_id"])
}

func TestWriteItemCreatesMissingOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	_, err := WriteItem(dir, sampleDocument())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
