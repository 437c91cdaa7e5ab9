package ncbi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/ternarybob/pmcgrab/internal/common"
)

func TestNewClientDefaultRateLimitNoAPIKey(t *testing.T) {
	cfg := common.NCBIConfig{Emails: []string{"a@example.com"}}
	c := NewClient(cfg)
	assert.Equal(t, rate.Limit(3), c.RateLimit())
}

func TestNewClientDefaultRateLimitWithAPIKey(t *testing.T) {
	cfg := common.NCBIConfig{Emails: []string{"a@example.com"}, APIKey: "secret"}
	c := NewClient(cfg)
	assert.Equal(t, rate.Limit(10), c.RateLimit())
}

func TestNewClientBaseURLOverride(t *testing.T) {
	cfg := common.NCBIConfig{Emails: []string{"a@example.com"}, BaseURL: "https://example.test/eutils"}
	c := NewClient(cfg)
	assert.Equal(t, "https://example.test/eutils", c.baseURL)
}

func TestNewClientOptionsApplyAfterDefaults(t *testing.T) {
	cfg := common.NCBIConfig{Emails: []string{"a@example.com"}, BaseURL: "https://example.test/eutils"}
	customPolicy := RetryPolicy{MaxAttempts: 7}

	c := NewClient(cfg,
		WithBaseURL("https://override.test"),
		WithRetryPolicy(customPolicy),
		WithMaxAttempts(9),
	)

	assert.Equal(t, "https://override.test", c.baseURL)
	assert.Equal(t, customPolicy, c.RetryPolicy())
	assert.Equal(t, 9, c.maxAttempts)
}

func TestNewClientMaxAttemptsIgnoresNonPositive(t *testing.T) {
	cfg := common.NCBIConfig{Emails: []string{"a@example.com"}}
	c := NewClient(cfg, WithMaxAttempts(0))
	assert.Equal(t, defaultRetries, c.maxAttempts)
}
