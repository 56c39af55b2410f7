package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nixenos/czytaj/internal/config"
)

func setEnvForTest(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOME",
		"XDG_CONFIG_HOME",
		"CZYTAJ_DB_PATH",
		"CZYTAJ_HTTP_TIMEOUT_SECONDS",
		"CZYTAJ_MAX_BODY_BYTES",
		"CZYTAJ_MAX_REDIRECTS",
		"CZYTAJ_REFRESH_CONCURRENCY",
		"CZYTAJ_EXCERPT_LENGTH",
		"CZYTAJ_USER_AGENT",
		"CZYTAJ_LOG_LEVEL",
	} {
		unsetEnvForTest(t, key)
	}
}

func writeConfigFile(t *testing.T, home string, body string) string {
	t.Helper()
	path := filepath.Join(home, ".config", "czytaj", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func testConfig(dbPath string) config.Config {
	return config.Config{
		DBPath:             dbPath,
		HTTPTimeout:        5 * time.Second,
		MaxBodyBytes:       1 << 20,
		MaxRedirects:       5,
		RefreshConcurrency: 2,
		ExcerptLength:      200,
		UserAgent:          "czytaj-test/1.0",
		LogLevel:           "error",
	}
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "czytaj.db")
}

// runCLI executes one command line against dbPath and returns its stdout.
func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(testConfig(dbPath))
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func mustRunCLI(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dbPath, args...)
	if err != nil {
		t.Fatalf("command failed (%v): %v", args, err)
	}
	return out
}

func decodeJSON[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode json: %v\n%s", err, raw)
	}
	return v
}

type feedItem struct {
	title string
	link  string
}

func rssFeed(title string, items ...feedItem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>` + title + `</title>`)
	for _, it := range items {
		b.WriteString(`<item><title>` + it.title + `</title><link>` + it.link + `</link><description>about ` + it.title + `</description></item>`)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

// feedHost serves swappable feed documents by path.
type feedHost struct {
	mu   sync.Mutex
	docs map[string]string
	srv  *httptest.Server
}

func newFeedHost(t *testing.T) *feedHost {
	t.Helper()
	h := &feedHost{docs: make(map[string]string)}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		doc, ok := h.docs[r.URL.Path]
		h.mu.Unlock()
		if !ok {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, doc)
	}))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *feedHost) serve(path, doc string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.docs[path] = doc
	return h.srv.URL + path
}
