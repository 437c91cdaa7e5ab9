package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/pmcgrab/internal/batch"
	"github.com/ternarybob/pmcgrab/internal/common"
	"github.com/ternarybob/pmcgrab/internal/errs"
	"github.com/ternarybob/pmcgrab/internal/ncbi"
)

const fixtureXML = `<article article-type="research-article"><front><article-meta><article-id pub-id-type="pmc">123</article-id><title-group><article-title>T</article-title></title-group></article-meta></front><body/></article>`

func TestRemoteFetchParsesSuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureXML))
	}))
	defer srv.Close()

	client := ncbi.NewClient(common.NCBIConfig{Emails: []string{"a@example.com"}}, ncbi.WithBaseURL(srv.URL))
	fetch := RemoteFetch(client, ncbi.NewRetryPolicy(), nil)

	doc, attempts, err := fetch(context.Background(), batch.Item{ID: "123", PMCID: "123"})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, "T", doc.Title)
}

func TestRemoteFetchWrapsNotFoundAsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := ncbi.NewClient(common.NCBIConfig{Emails: []string{"a@example.com"}}, ncbi.WithBaseURL(srv.URL))
	fetch := RemoteFetch(client, ncbi.NewRetryPolicy(), nil)

	_, _, err := fetch(context.Background(), batch.Item{ID: "999", PMCID: "999"})
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestRemoteFetchRetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(fixtureXML))
	}))
	defer srv.Close()

	client := ncbi.NewClient(common.NCBIConfig{Emails: []string{"a@example.com"}}, ncbi.WithBaseURL(srv.URL))
	policy := ncbi.RetryPolicy{MaxAttempts: 3, InitialBackoff: 0, MaxBackoff: 0, BackoffMultiplier: 2}
	fetch := RemoteFetch(client, policy, nil)

	doc, attempts, err := fetch(context.Background(), batch.Item{ID: "123", PMCID: "123"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "T", doc.Title)
}

func TestLocalFetchParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PMC123.xml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureXML), 0o644))

	fetch := LocalFetch()
	doc, attempts, err := fetch(context.Background(), batch.Item{ID: path, PMCID: "123", LocalPath: path})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, "T", doc.Title)
}

func TestLocalFetchDoesNotRetryMissingFile(t *testing.T) {
	fetch := LocalFetch()
	_, attempts, err := fetch(context.Background(), batch.Item{ID: "missing", LocalPath: "/no/such/file.xml"})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}
