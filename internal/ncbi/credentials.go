package ncbi

import "sync"

// CredentialPool rotates a list of contact emails round-robin and carries
// the optional API key attached to every request. Thread-safe, and scoped
// to one Client instance (spec §4.2, §9 design note against singletons).
type CredentialPool struct {
	mu     sync.Mutex
	emails []string
	next   int
	apiKey string
}

func NewCredentialPool(emails []string, apiKey string) *CredentialPool {
	pool := append([]string(nil), emails...)
	if len(pool) == 0 {
		pool = []string{"pmcgrab-anonymous@example.com"}
	}
	return &CredentialPool{emails: pool, apiKey: apiKey}
}

// NextEmail returns the next email in round-robin order, wrapping at the
// end of the list. Thread-safe.
func (p *CredentialPool) NextEmail() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := p.emails[p.next%len(p.emails)]
	p.next++
	return e
}

// APIKey returns the configured NCBI API key, empty if none was supplied.
func (p *CredentialPool) APIKey() string {
	return p.apiKey
}

// HasAPIKey reports whether an API key is configured.
func (p *CredentialPool) HasAPIKey() bool {
	return p.apiKey != ""
}
