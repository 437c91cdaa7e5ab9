package ncbi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

func TestReadLocalNotFound(t *testing.T) {
	_, err := ReadLocal(filepath.Join(t.TempDir(), "missing.xml"))
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestReadLocalSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PMC1.xml")
	require.NoError(t, os.WriteFile(path, []byte("<article/>"), 0o644))

	data, err := ReadLocal(path)
	require.NoError(t, err)
	assert.Equal(t, "<article/>", string(data))
}

func TestWalkDirectorySortedXMLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xml", "a.xml", "notes.txt", "c.XML"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<article/>"), 0o644))
	}

	it, err := WalkDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, it.Len())

	var got []string
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, filepath.Base(p))
	}
	assert.Equal(t, []string{"a.xml", "b.xml", "c.XML"}, got)
}
