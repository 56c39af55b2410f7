package engine

import (
	"sync"

	"github.com/nixenos/czytaj/internal/model"
)

type feedFailure struct {
	lastError string
	count     int
}

// feedHealth remembers failed refreshes per URL in memory. A failed refresh
// must leave the stored feed record as it was.
type feedHealth struct {
	mu       sync.Mutex
	failures map[string]feedFailure
}

func newFeedHealth() *feedHealth {
	return &feedHealth{failures: make(map[string]feedFailure)}
}

func (h *feedHealth) fail(url, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f := h.failures[url]
	f.lastError = msg
	f.count++
	h.failures[url] = f
}

func (h *feedHealth) clear(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.failures, url)
}

func (h *feedHealth) annotate(feed *model.Feed) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.failures[feed.URL]; ok {
		feed.LastError = f.lastError
		feed.ErrorCount = f.count
	}
}
