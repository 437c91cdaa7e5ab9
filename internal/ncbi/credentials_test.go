package ncbi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialPoolRoundRobin(t *testing.T) {
	p := NewCredentialPool([]string{"a@example.com", "b@example.com", "c@example.com"}, "")
	got := []string{p.NextEmail(), p.NextEmail(), p.NextEmail(), p.NextEmail()}
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com", "a@example.com"}, got)
}

func TestCredentialPoolAPIKey(t *testing.T) {
	withKey := NewCredentialPool([]string{"a@example.com"}, "secret")
	assert.True(t, withKey.HasAPIKey())
	assert.Equal(t, "secret", withKey.APIKey())

	withoutKey := NewCredentialPool([]string{"a@example.com"}, "")
	assert.False(t, withoutKey.HasAPIKey())
}

func TestCredentialPoolSingleEmail(t *testing.T) {
	p := NewCredentialPool([]string{"only@example.com"}, "")
	for i := 0; i < 3; i++ {
		assert.Equal(t, "only@example.com", p.NextEmail())
	}
}
