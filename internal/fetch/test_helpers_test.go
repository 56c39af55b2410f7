package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nixenos/czytaj/internal/config"
)

const testFeedXML = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Test Feed</title><link>https://example.com</link>
<item><title>Entry One</title><link>https://example.com/entry-1</link></item>
</channel></rss>`

func newTestFetcher() *Fetcher {
	return NewFetcher(config.Config{
		HTTPTimeout:  5 * time.Second,
		MaxBodyBytes: 1 << 20,
		MaxRedirects: 5,
		UserAgent:    "czytaj-test/1.0",
	})
}

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func mustFetchError(t *testing.T, err error) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("Fetch() error = nil, want *Error")
	}
	fetchErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Fetch() error = %T (%v), want *Error", err, err)
	}
	return fetchErr
}
