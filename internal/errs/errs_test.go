package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil error", nil, Kind("")},
		{"direct Error", New(NotFound, "op", nil), NotFound},
		{"wrapped Error", fmt.Errorf("context: %w", New(NetworkError, "op", nil)), NetworkError},
		{"plain error defaults to ConfigError", errors.New("boom"), ConfigError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := New(NotFound, "FetchRemote", errors.New("404"))
	assert.True(t, errors.Is(err, New(NotFound, "", nil)))
	assert.False(t, errors.Is(err, New(NetworkError, "", nil)))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(IOFailed, "WriteItem", cause)
	require.ErrorIs(t, err, cause)
}

func TestRetriable(t *testing.T) {
	assert.True(t, NetworkError.Retriable())
	assert.False(t, NotFound.Retriable())
	assert.False(t, ValidationError.Retriable())
}

func TestFatalForBatch(t *testing.T) {
	assert.True(t, ConfigError.FatalForBatch())
	assert.False(t, NetworkError.FatalForBatch())
}
