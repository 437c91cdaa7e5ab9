package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/pmcgrab/internal/errs"
)

// FetchRemote implements C1's fetch_remote: acquires a rate-limiter token,
// calls the NCBI Entrez Fetch endpoint for pmcid, and returns raw JATS XML
// bytes. Retries are the caller's responsibility (C3, via ExecuteWithRetry)
// so that tests can inject fault sequences around a single fetch attempt.
func (c *Client) FetchRemote(ctx context.Context, pmcid string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.New(errs.Cancelled, "FetchRemote", err)
	}

	params := url.Values{}
	params.Set("db", "pmc")
	params.Set("id", pmcid)
	params.Set("rettype", "full")
	params.Set("retmode", "xml")
	params.Set("email", c.creds.NextEmail())
	if c.creds.HasAPIKey() {
		params.Set("api_key", c.creds.APIKey())
	}

	reqURL := fmt.Sprintf("%s/efetch.fcgi?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.New(errs.ConfigError, "FetchRemote", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "FetchRemote", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.NetworkError, "FetchRemote.readBody", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, errs.New(errs.NetworkError, "FetchRemote", fmt.Errorf("status %d for PMC%s", resp.StatusCode, pmcid))
	}
	if resp.StatusCode >= 400 {
		return nil, errs.New(errs.NotFound, "FetchRemote", fmt.Errorf("status %d for PMC%s", resp.StatusCode, pmcid))
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errs.New(errs.NotFound, "FetchRemote", fmt.Errorf("empty response for PMC%s", pmcid))
	}

	return body, nil
}

// ReadLocal implements C1's read_local: reads XML bytes from disk.
func ReadLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.NotFound, "ReadLocal", err)
		}
		return nil, errs.New(errs.IOFailed, "ReadLocal", err)
	}
	return data, nil
}

// WalkDirectory implements C1's walk_directory: a finite, lexicographically
// sorted sequence of *.xml paths under dir. Returned as an iterator rather
// than a pre-read slice of file contents, so callers can stream through a
// large directory without holding every file's bytes at once.
type PathIterator struct {
	paths []string
	pos   int
}

// Next returns the next path and true, or "" and false once exhausted.
func (it *PathIterator) Next() (string, bool) {
	if it.pos >= len(it.paths) {
		return "", false
	}
	p := it.paths[it.pos]
	it.pos++
	return p, true
}

// Len reports the total number of paths in the sequence.
func (it *PathIterator) Len() int { return len(it.paths) }

func WalkDirectory(dir string) (*PathIterator, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.New(errs.IOFailed, "WalkDirectory", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return &PathIterator{paths: paths}, nil
}
