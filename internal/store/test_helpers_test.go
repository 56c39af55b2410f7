package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "czytaj.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewStore(db)
}

func mustCreateFeed(t *testing.T, store *Store, url string, articles ...Article) Feed {
	t.Helper()
	feed, err := store.CreateFeedWithArticles(context.Background(), url, "Feed "+url, articles, time.Now())
	if err != nil {
		t.Fatalf("create feed: %v", err)
	}
	return feed
}
