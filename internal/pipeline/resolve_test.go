package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/pmcgrab/internal/batch"
)

func TestResolveInputsPMCIDsNormalizesAndIDs(t *testing.T) {
	items, err := ResolveInputs(context.Background(), ModePMCIDs, []string{"PMC123", "456"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []batch.Item{
		{ID: "123", PMCID: "123"},
		{ID: "456", PMCID: "456"},
	}, items)
}

func TestResolveInputsPMCIDsRejectsInvalid(t *testing.T) {
	_, err := ResolveInputs(context.Background(), ModePMCIDs, []string{"not-an-id"}, nil)
	assert.Error(t, err)
}

func TestResolveInputsDirectoryListsXMLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xml", "a.xml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<article/>"), 0o644))
	}

	items, err := ResolveInputs(context.Background(), ModeDirectory, []string{dir}, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, filepath.Join(dir, "a.xml"), items[0].LocalPath)
	assert.Equal(t, filepath.Join(dir, "b.xml"), items[1].LocalPath)
}

func TestResolveInputsDirectoryRejectsMultipleArgs(t *testing.T) {
	_, err := ResolveInputs(context.Background(), ModeDirectory, []string{"a", "b"}, nil)
	assert.Error(t, err)
}

func TestResolveInputsFilesTreatsEachArgAsLocalPath(t *testing.T) {
	items, err := ResolveInputs(context.Background(), ModeFiles, []string{"/a.xml", "/b.xml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []batch.Item{
		{ID: "/a.xml", LocalPath: "/a.xml"},
		{ID: "/b.xml", LocalPath: "/b.xml"},
	}, items)
}

func TestResolveInputsIDFileWithOnlyPMCIDLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ids.txt")
	content := "PMC111\n# a comment\n\nPMC222\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	items, err := ResolveInputs(context.Background(), ModeIDFile, []string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, []batch.Item{
		{ID: "111", PMCID: "111"},
		{ID: "222", PMCID: "222"},
	}, items)
}

func TestResolveInputsIDFileRejectsMultipleArgs(t *testing.T) {
	_, err := ResolveInputs(context.Background(), ModeIDFile, []string{"a", "b"}, nil)
	assert.Error(t, err)
}

func TestResolveInputsUnknownModeErrors(t *testing.T) {
	_, err := ResolveInputs(context.Background(), Mode("bogus"), nil, nil)
	assert.Error(t, err)
}
