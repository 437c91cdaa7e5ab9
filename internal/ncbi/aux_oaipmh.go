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

const oaiPMHBaseURL = "https://www.ncbi.nlm.nih.gov/pmc/oai/oai.cgi"

// OAIRecord is one OAI-PMH ListRecords/ListIdentifiers/GetRecord entry,
// grounded on other_examples/90173108_..._oaipmh-client.go.go's response
// shape. Metadata is empty for a ListIdentifiers harvest, which is a
// header-only verb.
type OAIRecord struct {
	Identifier string `xml:"header>identifier"`
	Datestamp  string `xml:"header>datestamp"`
	Status     string `xml:"header>status,attr"`
	Metadata   []byte `xml:"metadata,innerxml"`
}

// UnmarshalXML decodes a <record> element. encoding/xml rejects the
// attribute and inner-XML tags above, so the header and metadata are decoded
// into nested values and copied into the record's fields.
func (r *OAIRecord) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Header   oaiHeader `xml:"header"`
		Metadata struct {
			Inner []byte `xml:",innerxml"`
		} `xml:"metadata"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	*r = OAIRecord{Identifier: raw.Header.Identifier, Datestamp: raw.Header.Datestamp, Status: raw.Header.Status, Metadata: raw.Metadata.Inner}
	return nil
}

// OAISet is one entry of a ListSets response.
type OAISet struct {
	Spec string `xml:"setSpec"`
	Name string `xml:"setName"`
}

type oaiHeader struct {
	Identifier string `xml:"identifier"`
	Datestamp  string `xml:"datestamp"`
	Status     string `xml:"status,attr"`
}

type oaiResumptionToken struct {
	Value         string `xml:",chardata"`
	CompleteCount string `xml:"completeListSize,attr"`
}

type oaiError struct {
	Code string `xml:"code,attr"`
	Text string `xml:",chardata"`
}

// oaiPageResponse covers both the ListRecords and ListIdentifiers verbs;
// only the element matching the request's verb is populated.
type oaiPageResponse struct {
	XMLName xml.Name `xml:"OAI-PMH"`
	Error   oaiError `xml:"error"`
	ListRecords struct {
		Records         []OAIRecord        `xml:"record"`
		ResumptionToken oaiResumptionToken `xml:"resumptionToken"`
	} `xml:"ListRecords"`
	ListIdentifiers struct {
		Headers         []oaiHeader        `xml:"header"`
		ResumptionToken oaiResumptionToken `xml:"resumptionToken"`
	} `xml:"ListIdentifiers"`
}

// RecordIterator lazily pages through an OAI-PMH ListRecords or
// ListIdentifiers harvest via resumption tokens, never buffering more
// than one page in memory at a time (spec §4.10, §9: "the spec requires
// a lazy sequence surface so large harvests don't allocate quadratic
// memory").
type RecordIterator struct {
	client *Client
	ctx    context.Context

	verb       string
	set        string
	metaPrefix string

	buffer []OAIRecord
	token  string
	done   bool
	err    error
}

// ListRecords begins a lazy OAI-PMH ListRecords harvest for the given set
// (empty for all sets) and metadata prefix (e.g. "pmc_fm").
func (c *Client) ListRecords(ctx context.Context, set, metadataPrefix string) *RecordIterator {
	return &RecordIterator{client: c, ctx: ctx, verb: "ListRecords", set: set, metaPrefix: metadataPrefix}
}

// ListIdentifiers is the header-only counterpart of ListRecords: it issues
// verb=ListIdentifiers and surfaces records with Metadata left empty,
// sharing the same lazy resumption-token iteration.
func (c *Client) ListIdentifiers(ctx context.Context, set, metadataPrefix string) *RecordIterator {
	return &RecordIterator{client: c, ctx: ctx, verb: "ListIdentifiers", set: set, metaPrefix: metadataPrefix}
}

// Next returns the next record and true, or a zero value and false once
// the harvest is exhausted or an error occurred (check Err()).
func (it *RecordIterator) Next() (OAIRecord, bool) {
	for len(it.buffer) == 0 {
		if it.done || it.err != nil {
			return OAIRecord{}, false
		}
		it.fetchPage()
	}
	rec := it.buffer[0]
	it.buffer = it.buffer[1:]
	return rec, true
}

// Err returns the first error encountered while paging, if any.
func (it *RecordIterator) Err() error { return it.err }

func (it *RecordIterator) fetchPage() {
	if err := it.client.limiter.Wait(it.ctx); err != nil {
		it.err = errs.New(errs.Cancelled, "RecordIterator.fetchPage", err)
		it.done = true
		return
	}

	params := url.Values{}
	if it.token != "" {
		params.Set("verb", it.verb)
		params.Set("resumptionToken", it.token)
	} else {
		params.Set("verb", it.verb)
		params.Set("metadataPrefix", it.metaPrefix)
		if it.set != "" {
			params.Set("set", it.set)
		}
	}

	reqURL := fmt.Sprintf("%s?%s", oaiPMHBaseURL, params.Encode())
	req, err := http.NewRequestWithContext(it.ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		it.err = errs.New(errs.ConfigError, "RecordIterator.fetchPage", err)
		it.done = true
		return
	}

	resp, err := it.client.httpClient.Do(req)
	if err != nil {
		it.err = errs.New(errs.NetworkError, "RecordIterator.fetchPage", err)
		it.done = true
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		it.err = errs.New(errs.NetworkError, "RecordIterator.fetchPage.readBody", err)
		it.done = true
		return
	}

	var parsed oaiPageResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		it.err = errs.New(errs.ValidationError, "RecordIterator.fetchPage.parse", err)
		it.done = true
		return
	}
	if parsed.Error.Code != "" {
		it.err = errs.New(errs.NotFound, "RecordIterator.fetchPage", fmt.Errorf("%s: %s", parsed.Error.Code, parsed.Error.Text))
		it.done = true
		return
	}

	if it.verb == "ListIdentifiers" {
		it.buffer = make([]OAIRecord, len(parsed.ListIdentifiers.Headers))
		for i, h := range parsed.ListIdentifiers.Headers {
			it.buffer[i] = OAIRecord{Identifier: h.Identifier, Datestamp: h.Datestamp, Status: h.Status}
		}
		it.token = parsed.ListIdentifiers.ResumptionToken.Value
	} else {
		it.buffer = parsed.ListRecords.Records
		it.token = parsed.ListRecords.ResumptionToken.Value
	}
	if it.token == "" {
		it.done = true
	}
}

// GetRecord fetches a single OAI-PMH record by identifier (verb=GetRecord),
// the non-paginated counterpart of ListRecords.
func (c *Client) GetRecord(ctx context.Context, identifier, metadataPrefix string) (*OAIRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.New(errs.Cancelled, "GetRecord", err)
	}

	params := url.Values{}
	params.Set("verb", "GetRecord")
	params.Set("identifier", identifier)
	params.Set("metadataPrefix", metadataPrefix)
	reqURL := fmt.Sprintf("%s?%s", oaiPMHBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.New(errs.ConfigError, "GetRecord", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "GetRecord", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "GetRecord.readBody", err)
	}

	var parsed struct {
		XMLName xml.Name `xml:"OAI-PMH"`
		Error   oaiError `xml:"error"`
		GetRecord struct {
			Record OAIRecord `xml:"record"`
		} `xml:"GetRecord"`
	}
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, errs.New(errs.ValidationError, "GetRecord.parse", err)
	}
	if parsed.Error.Code != "" {
		return nil, errs.New(errs.NotFound, "GetRecord", fmt.Errorf("%s: %s", parsed.Error.Code, parsed.Error.Text))
	}
	return &parsed.GetRecord.Record, nil
}

// ListSets returns the repository's full set listing (verb=ListSets). PMC's
// OAI-PMH set hierarchy is small enough that a single unpaginated call is
// sufficient, unlike ListRecords/ListIdentifiers which MUST page.
func (c *Client) ListSets(ctx context.Context) ([]OAISet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.New(errs.Cancelled, "ListSets", err)
	}

	params := url.Values{}
	params.Set("verb", "ListSets")
	reqURL := fmt.Sprintf("%s?%s", oaiPMHBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.New(errs.ConfigError, "ListSets", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "ListSets", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "ListSets.readBody", err)
	}

	var parsed struct {
		XMLName  xml.Name `xml:"OAI-PMH"`
		Error    oaiError `xml:"error"`
		ListSets struct {
			Sets []OAISet `xml:"set"`
		} `xml:"ListSets"`
	}
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, errs.New(errs.ValidationError, "ListSets.parse", err)
	}
	if parsed.Error.Code != "" {
		return nil, errs.New(errs.NotFound, "ListSets", fmt.Errorf("%s: %s", parsed.Error.Code, parsed.Error.Text))
	}
	return parsed.ListSets.Sets, nil
}
