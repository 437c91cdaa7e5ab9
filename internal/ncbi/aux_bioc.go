package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

// FetchBioC implements the BioC auxiliary client (C10): a thin
// request-and-return wrapper over the NCBI BioC endpoint, sharing the
// rate limiter with the primary fetch path. It sends no email or API key
// from the credential pool and makes a single attempt.
func (c *Client) FetchBioC(ctx context.Context, pmcid, format string) ([]byte, error) {
	if format == "" {
		format = "xml"
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.New(errs.Cancelled, "FetchBioC", err)
	}

	reqURL := fmt.Sprintf(
		"https://www.ncbi.nlm.nih.gov/research/bionlp/RESTful/pmcoa.cgi/BioC_%s/PMC%s/unicode",
		format, url.PathEscape(pmcid),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.New(errs.ConfigError, "FetchBioC", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "FetchBioC", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "FetchBioC.readBody", err)
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, errs.New(errs.NetworkError, "FetchBioC", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, errs.New(errs.NotFound, "FetchBioC", fmt.Errorf("status %d for PMC%s", resp.StatusCode, pmcid))
	}
	return body, nil
}
