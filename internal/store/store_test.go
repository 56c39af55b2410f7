package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nixenos/czytaj/internal/model"
)

func TestStoreCreateFeedWithArticles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	articles := []Article{
		{Title: "A", Link: "https://example.com/a", Excerpt: "first"},
		{Title: "B", Link: "https://example.com/b", ImageURL: "https://example.com/b.png"},
	}
	feed := mustCreateFeed(t, store, "https://example.com/feed.xml", articles...)
	if feed.Title != "Feed https://example.com/feed.xml" {
		t.Fatalf("Title = %q", feed.Title)
	}
	if feed.ArticleCount != 2 {
		t.Fatalf("ArticleCount = %d, want 2", feed.ArticleCount)
	}
	if feed.LastFetchedAt == nil {
		t.Fatalf("LastFetchedAt = nil, want set")
	}

	got, err := store.ListArticles(ctx, feed.URL)
	if err != nil {
		t.Fatalf("list articles: %v", err)
	}
	if diff := cmp.Diff(articles, got); diff != "" {
		t.Fatalf("articles mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreCreateFeedDuplicateURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mustCreateFeed(t, store, "https://example.com/feed.xml", Article{Title: "A", Link: "https://example.com/a"})

	_, err := store.CreateFeedWithArticles(ctx, "https://example.com/feed.xml", "Other", []Article{{Title: "Z", Link: "https://example.com/z"}}, time.Now())
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second create error = %v, want ErrAlreadyExists", err)
	}

	feeds, err := store.ListFeeds(ctx)
	if err != nil {
		t.Fatalf("list feeds: %v", err)
	}
	if len(feeds) != 1 || feeds[0].ArticleCount != 1 {
		t.Fatalf("feeds after duplicate = %+v, want one feed with one article", feeds)
	}
}

func TestStoreCreateFeedRollsBackOnInvalidArticle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateFeedWithArticles(ctx, "https://example.com/feed.xml", "Feed", []Article{
		{Title: "ok", Link: "https://example.com/ok"},
		{Title: "no link"},
	}, time.Now())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("create error = %v, want ErrInvalidInput", err)
	}

	exists, err := store.FeedExists(ctx, "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("feed exists: %v", err)
	}
	if exists {
		t.Fatalf("feed row survived a failed registration")
	}
}

func TestStoreReplaceFeedArticles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	const url = "https://example.com/feed.xml"
	mustCreateFeed(t, store, url,
		Article{Title: "A", Link: "https://example.com/a"},
		Article{Title: "B", Link: "https://example.com/b", Excerpt: "old"},
	)
	next := []Article{
		{Title: "B", Link: "https://example.com/b", Excerpt: "new"},
		{Title: "C", Link: "https://example.com/c"},
	}
	fetchedAt := time.Now().Add(time.Hour)
	feed, err := store.ReplaceFeedArticles(ctx, url, next, fetchedAt)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if feed.LastFetchedAt == nil || !feed.LastFetchedAt.Equal(fetchedAt) {
		t.Fatalf("LastFetchedAt = %v, want %v", feed.LastFetchedAt, fetchedAt)
	}
	if feed.ArticleCount != len(next) {
		t.Fatalf("ArticleCount = %d, want %d", feed.ArticleCount, len(next))
	}

	got, err := store.ListArticles(ctx, url)
	if err != nil {
		t.Fatalf("list articles: %v", err)
	}
	if diff := cmp.Diff(next, got); diff != "" {
		t.Fatalf("articles mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreReplaceFeedArticlesUnknownFeed(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ReplaceFeedArticles(context.Background(), "https://nope.example.com/", nil, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("replace error = %v, want ErrNotFound", err)
	}
}

func TestStoreReplaceFeedArticlesKeepsPriorCacheOnFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	const url = "https://example.com/feed.xml"
	original := []Article{{Title: "A", Link: "https://example.com/a"}}
	mustCreateFeed(t, store, url, original...)

	_, err := store.ReplaceFeedArticles(ctx, url, []Article{{Title: "C", Link: "https://example.com/c"}, {Title: "bad"}}, time.Now())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("replace error = %v, want ErrInvalidInput", err)
	}

	got, err := store.ListArticles(ctx, url)
	if err != nil {
		t.Fatalf("list articles: %v", err)
	}
	if diff := cmp.Diff(original, got); diff != "" {
		t.Fatalf("cache changed after failed replace (-want +got):\n%s", diff)
	}
}

func TestStoreListFeedsInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	urls := []string{"https://c.example.com/", "https://a.example.com/", "https://b.example.com/"}
	for _, u := range urls {
		mustCreateFeed(t, store, u)
	}

	feeds, err := store.ListFeeds(context.Background())
	if err != nil {
		t.Fatalf("list feeds: %v", err)
	}
	got := make([]string, 0, len(feeds))
	for _, f := range feeds {
		got = append(got, f.URL)
	}
	if diff := cmp.Diff(urls, got); diff != "" {
		t.Fatalf("feed order mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreDeleteFeedKeepsViewed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	const url = "https://example.com/feed.xml"
	mustCreateFeed(t, store, url, Article{Title: "A", Link: "https://example.com/a"})
	if _, err := store.MarkViewed(ctx, "https://example.com/a", "A", time.Now()); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}

	if err := store.DeleteFeed(ctx, url); err != nil {
		t.Fatalf("delete feed: %v", err)
	}
	if _, err := store.ListArticles(ctx, url); !errors.Is(err, ErrNotFound) {
		t.Fatalf("list articles after delete error = %v, want ErrNotFound", err)
	}
	viewed, err := store.IsViewed(ctx, "https://example.com/a")
	if err != nil {
		t.Fatalf("is viewed: %v", err)
	}
	if !viewed {
		t.Fatalf("viewed state dropped with the feed")
	}
	if err := store.DeleteFeed(ctx, url); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestStoreViewedIsIdempotentAndOrdered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	inserted, err := store.MarkViewed(ctx, "https://example.com/a", "A", base)
	if err != nil || !inserted {
		t.Fatalf("mark a: inserted=%v err=%v", inserted, err)
	}
	inserted, err = store.MarkViewed(ctx, "https://example.com/a", "A again", base.Add(time.Hour))
	if err != nil || inserted {
		t.Fatalf("mark a twice: inserted=%v err=%v", inserted, err)
	}
	if _, err := store.MarkViewed(ctx, "https://example.com/b", "B", base.Add(time.Minute)); err != nil {
		t.Fatalf("mark b: %v", err)
	}

	got, err := store.ListViewed(ctx)
	if err != nil {
		t.Fatalf("list viewed: %v", err)
	}
	want := []ViewedArticle{
		{Link: "https://example.com/b", Title: "B", ViewedAt: base.Add(time.Minute)},
		{Link: "https://example.com/a", Title: "A", ViewedAt: base},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("viewed mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.MarkViewed(ctx, "  ", "blank", base); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("mark blank link error = %v, want ErrInvalidInput", err)
	}
	viewed, err := store.IsViewed(ctx, "https://example.com/zzz")
	if err != nil || viewed {
		t.Fatalf("is viewed unknown: viewed=%v err=%v", viewed, err)
	}
}

func TestStoreSettingsDefaultsAndRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get default settings: %v", err)
	}
	if diff := cmp.Diff(model.DefaultSettings(), got); diff != "" {
		t.Fatalf("default settings mismatch (-want +got):\n%s", diff)
	}

	for _, want := range []Settings{
		{Theme: model.ThemeDark, ShowImages: false, ShowExcerpts: true},
		{Theme: model.ThemeLight, ShowImages: true, ShowExcerpts: false},
		{Theme: model.ThemeDark, ShowImages: false, ShowExcerpts: false},
	} {
		if err := store.PutSettings(ctx, want); err != nil {
			t.Fatalf("put settings %+v: %v", want, err)
		}
		got, err := store.GetSettings(ctx)
		if err != nil {
			t.Fatalf("get settings: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("settings round trip mismatch (-want +got):\n%s", diff)
		}
	}

	if err := store.PutSettings(ctx, Settings{Theme: "Solarized"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("put invalid theme error = %v, want ErrInvalidInput", err)
	}
}

func TestStoreSettingsInvalidStoredThemeIsCorrupt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if _, err := store.db.ExecContext(ctx, `
		INSERT INTO settings(id, theme, show_images, show_excerpts, updated_at)
		VALUES (1, 'Sepia', 1, 1, '2026-01-01T00:00:00Z')
	`); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	_, err := store.GetSettings(ctx)
	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Kind != KindCorruptState {
		t.Fatalf("get settings error = %v, want corrupt state", err)
	}
}
