package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRunIDHasPrefixAndIsUnique(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.True(t, strings.HasPrefix(a, "run_"))
	assert.True(t, strings.HasPrefix(b, "run_"))
	assert.NotEqual(t, a, b)
}
