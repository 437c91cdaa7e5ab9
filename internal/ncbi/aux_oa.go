package ncbi

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

// OALink is one download link in an Open Access record, grounded on
// other_examples/b3d8e5b2_..._pubmed-types.go.go's OALink struct tagging.
type OALink struct {
	Format string `xml:"format,attr"`
	Href   string `xml:"href,attr"`
}

// OARecord is one record in the OA response.
type OARecord struct {
	ID    string   `xml:"id,attr"`
	Links []OALink `xml:"link"`
}

// OAResponse is the full Open Access Service Interface response.
type OAResponse struct {
	XMLName xml.Name   `xml:"OA"`
	Error   string     `xml:"error"`
	Records []OARecord `xml:"records>record"`
}

// FetchOA implements the OA auxiliary client (C10): looks up download
// links for a PMCID via NCBI's Open Access Service.
func (c *Client) FetchOA(ctx context.Context, pmcid string) (*OAResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.New(errs.Cancelled, "FetchOA", err)
	}

	params := url.Values{}
	params.Set("id", "PMC"+pmcid)
	reqURL := fmt.Sprintf("https://www.ncbi.nlm.nih.gov/pmc/utils/oa/oa.fcgi?%s", params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.New(errs.ConfigError, "FetchOA", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "FetchOA", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "FetchOA.readBody", err)
	}

	var parsed OAResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, errs.New(errs.ValidationError, "FetchOA.parse", err)
	}
	if parsed.Error != "" {
		return nil, errs.New(errs.NotFound, "FetchOA", fmt.Errorf("%s", parsed.Error))
	}
	return &parsed, nil
}
