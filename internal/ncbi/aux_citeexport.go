package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

// CitationFormat is a typed enum of the supported citation export formats
// (spec §4.10), kept typed rather than a free string so callers can't pass
// an unsupported value through to the endpoint undetected.
type CitationFormat string

const (
	FormatMedline CitationFormat = "medline"
	FormatBibTeX  CitationFormat = "bibtex"
	FormatRIS     CitationFormat = "ris"
	FormatNBIB    CitationFormat = "nbib"
	FormatPubMed  CitationFormat = "pubmed"
)

func (f CitationFormat) valid() bool {
	switch f {
	case FormatMedline, FormatBibTeX, FormatRIS, FormatNBIB, FormatPubMed:
		return true
	}
	return false
}

// ExportCitation implements the citation-export auxiliary client (C10):
// fetches a single citation in the requested export format.
func (c *Client) ExportCitation(ctx context.Context, pmid string, format CitationFormat) ([]byte, error) {
	if !format.valid() {
		return nil, errs.New(errs.UnsupportedInput, "ExportCitation", fmt.Errorf("unsupported format %q", format))
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.New(errs.Cancelled, "ExportCitation", err)
	}

	params := url.Values{}
	params.Set("id", pmid)
	params.Set("format", string(format))
	params.Set("email", c.creds.NextEmail())
	if c.creds.HasAPIKey() {
		params.Set("api_key", c.creds.APIKey())
	}

	reqURL := fmt.Sprintf("https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi?db=pubmed&rettype=%s&%s", format, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.New(errs.ConfigError, "ExportCitation", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "ExportCitation", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "ExportCitation.readBody", err)
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, errs.New(errs.NetworkError, "ExportCitation", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, errs.New(errs.NotFound, "ExportCitation", fmt.Errorf("status %d for PMID %s", resp.StatusCode, pmid))
	}
	return body, nil
}
