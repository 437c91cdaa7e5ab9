// Package ncbi implements the XML access layer (C1), the rate limiter and
// credential pool (C2), the retry/backoff policy (C3), and the auxiliary
// NCBI service clients (C10). All of it is scoped to one *Client instance
// rather than package-level singletons, so the rate-limit property is
// testable in isolation (spec design note: avoid process-wide singletons).
package ncbi

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/pmcgrab/internal/common"
)

const (
	defaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	defaultRetries = 3
)

// Client is a rate-limited caller of the NCBI Entrez family of endpoints
// (EFetch, ID Converter, BioC, OA, OAI-PMH, citation export). Its request
// methods make a single attempt; the C3 retry policy it carries is applied
// by callers such as pipeline.RemoteFetch.
// Grounded on internal/eodhd/client.go's functional-options constructor
// and limiter-gated get() method.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	creds      *CredentialPool
	retry      RetryPolicy
	maxAttempts int
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l arbor.ILogger) ClientOption {
	return func(c *Client) { c.logger = l }
}

func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) { c.retry = p }
}

func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// NewClient builds a Client from an NCBIConfig: rate = 10 req/s if an API
// key is configured, else 3 req/s (spec §4.2), and a round-robin email
// pool seeded from cfg.Emails.
func NewClient(cfg common.NCBIConfig, opts ...ClientOption) *Client {
	rateLimit := cfg.RateLimit()

	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger:      common.GetLogger(),
		limiter:     rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		creds:       NewCredentialPool(cfg.Emails, cfg.APIKey),
		retry:       NewRetryPolicy(),
		maxAttempts: defaultRetries,
	}

	if cfg.BaseURL != "" {
		c.baseURL = cfg.BaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateLimit reports the configured requests-per-second ceiling, used by
// tests asserting the C2 rolling-window invariant.
func (c *Client) RateLimit() rate.Limit { return c.limiter.Limit() }

// RetryPolicy returns the client's configured C3 retry policy, so callers
// wiring RemoteFetch don't need to track it separately.
func (c *Client) RetryPolicy() RetryPolicy { return c.retry }
