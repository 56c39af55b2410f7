package engine

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nixenos/czytaj/internal/config"
	"github.com/nixenos/czytaj/internal/fetch"
	"github.com/nixenos/czytaj/internal/metrics"
	"github.com/nixenos/czytaj/internal/parse"
	"github.com/nixenos/czytaj/internal/store"
)

type testItem struct {
	title string
	link  string
	desc  string
}

func rssDoc(title string, items ...testItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel>`)
	if title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", title)
	}
	for _, it := range items {
		b.WriteString("<item>")
		if it.title != "" {
			fmt.Fprintf(&b, "<title>%s</title>", it.title)
		}
		if it.link != "" {
			fmt.Fprintf(&b, "<link>%s</link>", it.link)
		}
		if it.desc != "" {
			fmt.Fprintf(&b, "<description>%s</description>", it.desc)
		}
		b.WriteString("</item>")
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

// feedServer serves a per-path document that tests can swap. When a gate is
// set, each request announces itself and waits for the gate to open.
type feedServer struct {
	mu      sync.Mutex
	docs    map[string]string
	status  map[string]int
	arrived chan string
	gate    chan struct{}
	srv     *httptest.Server
}

func newFeedServer(t *testing.T) *feedServer {
	t.Helper()
	s := &feedServer{
		docs:   make(map[string]string),
		status: make(map[string]int),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *feedServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc, ok := s.docs[r.URL.Path]
	status := s.status[r.URL.Path]
	arrived, gate := s.arrived, s.gate
	s.mu.Unlock()

	if gate != nil {
		arrived <- r.URL.Path
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		http.Error(w, "failure", status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml")
	_, _ = io.WriteString(w, doc)
}

func (s *feedServer) set(path, doc string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = doc
	delete(s.status, path)
	return s.srv.URL + path
}

func (s *feedServer) fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = status
}

// hold makes subsequent requests block until the returned function is called.
func (s *feedServer) hold(buffer int) (arrived <-chan string, open func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan string, buffer)
	gate := make(chan struct{})
	s.arrived, s.gate = ch, gate
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			s.arrived, s.gate = nil, nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

type testEngine struct {
	*Engine
	store   *store.Store
	metrics *metrics.Metrics
}

func newTestEngine(t *testing.T) testEngine {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "czytaj.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := config.Config{
		HTTPTimeout:        5 * time.Second,
		MaxBodyBytes:       1 << 20,
		MaxRedirects:       5,
		RefreshConcurrency: 4,
		ExcerptLength:      500,
		UserAgent:          "czytaj-test/1.0",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewStore(db)
	m := metrics.New(prometheus.NewRegistry())
	eng := New(st, fetch.NewFetcher(cfg), parse.NewParser(cfg.ExcerptLength, logger), cfg, m, logger)
	return testEngine{Engine: eng, store: st, metrics: m}
}

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
	var zero T
	return zero
}
