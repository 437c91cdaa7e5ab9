package identifiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePMCID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare digits", "7181753", "7181753", false},
		{"PMC prefix", "PMC7181753", "7181753", false},
		{"lowercase prefix", "pmc7181753", "7181753", false},
		{"surrounding whitespace", "  PMC7181753  ", "7181753", false},
		{"empty", "", "", true},
		{"non-numeric", "PMCabc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePMCID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePMID(t *testing.T) {
	got, err := NormalizePMID(" 32345678 ")
	require.NoError(t, err)
	assert.Equal(t, "32345678", got)

	_, err = NormalizePMID("not-a-pmid")
	assert.Error(t, err)
}

func TestIsPMCID(t *testing.T) {
	assert.True(t, IsPMCID("PMC123"))
	assert.True(t, IsPMCID("123"))
	assert.False(t, IsPMCID("10.1234/abc"))
}

func TestLooksLikeDOI(t *testing.T) {
	assert.True(t, LooksLikeDOI("10.1371/journal.pone.0000001"))
	assert.False(t, LooksLikeDOI("PMC123"))
}

func TestDedupPreserveOrder(t *testing.T) {
	in := []string{"b", "a", "b", "c", "a"}
	assert.Equal(t, []string{"b", "a", "c"}, DedupPreserveOrder(in))
}
