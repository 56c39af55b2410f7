package engine

import "sync"

// inflight tracks feed URLs with a fetch in progress. A second caller for the
// same URL is rejected instead of queued.
type inflight struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{urls: make(map[string]struct{})}
}

func (f *inflight) acquire(url string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.urls[url]; busy {
		return nil, false
	}
	f.urls[url] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.urls, url)
		f.mu.Unlock()
	}, true
}
