package ncbi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/pmcgrab/internal/common"
	"github.com/ternarybob/pmcgrab/internal/errs"
)

// routedTransport dispatches by a substring match against the outgoing
// request URL, since the C10 auxiliary endpoints hit fixed NCBI hosts
// rather than the client's configurable baseURL.
type routedTransport struct {
	routes []route
}

type route struct {
	contains string
	status   int
	body     string
}

func (rt routedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	for _, r := range rt.routes {
		if strings.Contains(url, r.contains) {
			return &http.Response{
				StatusCode: r.status,
				Body:       io.NopCloser(strings.NewReader(r.body)),
				Header:     make(http.Header),
			}, nil
		}
	}
	return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(""))}, nil
}

func clientWithRoutes(routes ...route) *Client {
	hc := &http.Client{Transport: routedTransport{routes: routes}}
	return NewClient(common.NCBIConfig{Emails: []string{"a@example.com"}}, WithHTTPClient(hc))
}

func TestFetchBioCDefaultsFormatAndReturnsBody(t *testing.T) {
	c := clientWithRoutes(route{contains: "BioC_xml/PMC123", status: 200, body: "<collection/>"})
	body, err := c.FetchBioC(context.Background(), "123", "")
	require.NoError(t, err)
	assert.Equal(t, "<collection/>", string(body))
}

func TestFetchBioCNotFound(t *testing.T) {
	c := clientWithRoutes(route{contains: "BioC_xml/PMC999", status: 404, body: ""})
	_, err := c.FetchBioC(context.Background(), "999", "")
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestFetchOAParsesRecords(t *testing.T) {
	oaXML := `<OA><records><record id="PMC123"><link format="pdf" href="ftp://example/file.pdf"/></record></records></OA>`
	c := clientWithRoutes(route{contains: "oa.fcgi", status: 200, body: oaXML})

	resp, err := c.FetchOA(context.Background(), "123")
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	require.Len(t, resp.Records[0].Links, 1)
	assert.Equal(t, "ftp://example/file.pdf", resp.Records[0].Links[0].Href)
}

func TestFetchOAReturnsErrorFromResponseBody(t *testing.T) {
	oaXML := `<OA><error>invalid article id</error></OA>`
	c := clientWithRoutes(route{contains: "oa.fcgi", status: 200, body: oaXML})

	_, err := c.FetchOA(context.Background(), "000")
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestExportCitationRejectsUnsupportedFormat(t *testing.T) {
	c := clientWithRoutes()
	_, err := c.ExportCitation(context.Background(), "123", CitationFormat("xml-unsupported"))
	require.Error(t, err)
	assert.Equal(t, errs.UnsupportedInput, errs.KindOf(err))
}

func TestExportCitationReturnsBody(t *testing.T) {
	c := clientWithRoutes(route{contains: "rettype=bibtex", status: 200, body: "@article{...}"})
	body, err := c.ExportCitation(context.Background(), "123", FormatBibTeX)
	require.NoError(t, err)
	assert.Equal(t, "@article{...}", string(body))
}

func TestListRecordsPagesUntilResumptionTokenEmpty(t *testing.T) {
	page1 := `<OAI-PMH><ListRecords>
		<record><header><identifier>oai:pmc:1</identifier><datestamp>2020-01-01</datestamp></header></record>
		<resumptionToken>tok-2</resumptionToken>
	</ListRecords></OAI-PMH>`
	page2 := `<OAI-PMH><ListRecords>
		<record><header><identifier>oai:pmc:2</identifier><datestamp>2020-01-02</datestamp></header></record>
		<resumptionToken></resumptionToken>
	</ListRecords></OAI-PMH>`

	calls := 0
	hc := &http.Client{Transport: routedTransportFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		body := page1
		if strings.Contains(req.URL.String(), "resumptionToken=tok-2") {
			body = page2
		}
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header)}, nil
	})}
	c := NewClient(common.NCBIConfig{Emails: []string{"a@example.com"}}, WithHTTPClient(hc))

	it := c.ListRecords(context.Background(), "", "pmc_fm")
	var ids []string
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		ids = append(ids, rec.Identifier)
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"oai:pmc:1", "oai:pmc:2"}, ids)
	assert.Equal(t, 2, calls)
}

func TestListIdentifiersIssuesListIdentifiersVerbAndOmitsMetadata(t *testing.T) {
	page := `<OAI-PMH><ListIdentifiers>
		<header><identifier>oai:pmc:1</identifier><datestamp>2020-01-01</datestamp></header>
		<resumptionToken></resumptionToken>
	</ListIdentifiers></OAI-PMH>`

	var sawVerb string
	hc := &http.Client{Transport: routedTransportFunc(func(req *http.Request) (*http.Response, error) {
		sawVerb = req.URL.Query().Get("verb")
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(page)), Header: make(http.Header)}, nil
	})}
	c := NewClient(common.NCBIConfig{Emails: []string{"a@example.com"}}, WithHTTPClient(hc))

	it := c.ListIdentifiers(context.Background(), "", "pmc_fm")
	rec, ok := it.Next()
	require.True(t, ok)
	require.NoError(t, it.Err())
	assert.Equal(t, "ListIdentifiers", sawVerb)
	assert.Equal(t, "oai:pmc:1", rec.Identifier)
	assert.Empty(t, rec.Metadata)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestGetRecordReturnsSingleRecord(t *testing.T) {
	body := `<OAI-PMH><GetRecord><record><header><identifier>oai:pmc:42</identifier><datestamp>2020-02-02</datestamp></header></record></GetRecord></OAI-PMH>`
	c := clientWithRoutes(route{contains: "verb=GetRecord", status: 200, body: body})

	rec, err := c.GetRecord(context.Background(), "oai:pmc:42", "pmc_fm")
	require.NoError(t, err)
	assert.Equal(t, "oai:pmc:42", rec.Identifier)
}

func TestListSetsReturnsSets(t *testing.T) {
	body := `<OAI-PMH><ListSets><set><setSpec>pmc-open</setSpec><setName>PMC Open Access</setName></set></ListSets></OAI-PMH>`
	c := clientWithRoutes(route{contains: "verb=ListSets", status: 200, body: body})

	sets, err := c.ListSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "pmc-open", sets[0].Spec)
}

type routedTransportFunc func(*http.Request) (*http.Response, error)

func (f routedTransportFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
