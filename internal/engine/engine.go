// Package engine is the command surface of the reader: it coordinates
// fetching, parsing and normalization with the state store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nixenos/czytaj/internal/config"
	"github.com/nixenos/czytaj/internal/fetch"
	"github.com/nixenos/czytaj/internal/metrics"
	"github.com/nixenos/czytaj/internal/model"
	"github.com/nixenos/czytaj/internal/normalize"
	"github.com/nixenos/czytaj/internal/parse"
	"github.com/nixenos/czytaj/internal/store"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Document, error)
}

type Engine struct {
	store       *store.Store
	fetcher     Fetcher
	parser      *parse.Parser
	metrics     *metrics.Metrics
	logger      *slog.Logger
	concurrency int
	inflight    *inflight
	health      *feedHealth
}

func New(st *store.Store, fetcher Fetcher, parser *parse.Parser, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.RefreshConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		store:       st,
		fetcher:     fetcher,
		parser:      parser,
		metrics:     m,
		logger:      logger,
		concurrency: concurrency,
		inflight:    newInflight(),
		health:      newFeedHealth(),
	}
}

// AddFeed registers url with the articles of its current document. Nothing is
// stored unless fetch, parse and the write all succeed.
func (e *Engine) AddFeed(ctx context.Context, rawURL string) (data model.FeedData, err error) {
	defer func() { e.metrics.ObserveCommand("add", resultLabel(err)) }()

	url, err := fetch.ValidateURL(rawURL)
	if err != nil {
		return model.FeedData{}, err
	}
	exists, err := e.store.FeedExists(ctx, url)
	if err != nil {
		return model.FeedData{}, err
	}
	if exists {
		return model.FeedData{}, fmt.Errorf("feed %q: %w", url, ErrAlreadyExists)
	}

	release, ok := e.inflight.acquire(url)
	if !ok {
		return model.FeedData{}, fmt.Errorf("feed %q: %w", url, ErrRefreshInProgress)
	}
	defer release()

	title, articles, err := e.load(ctx, url)
	if err != nil {
		e.logger.Warn("add feed failed", "url", url, "kind", Kind(err), "err", err)
		return model.FeedData{}, err
	}
	if title == "" {
		title = url
	}

	if _, err := e.store.CreateFeedWithArticles(ctx, url, title, articles, time.Now()); err != nil {
		return model.FeedData{}, err
	}
	e.metrics.ObserveStored("add", len(articles))
	e.logger.Info("feed added", "url", url, "title", title, "articles", len(articles))
	return model.FeedData{Title: title, Articles: articles}, nil
}

// RefreshFeed replaces the cached articles of a known feed with the current
// document's. On failure nothing is written: the cache and the feed record stay
// as they were, and the error is only kept in memory for GetFeed and ListFeeds.
func (e *Engine) RefreshFeed(ctx context.Context, rawURL string) (data model.FeedData, err error) {
	defer func() { e.metrics.ObserveCommand("refresh", resultLabel(err)) }()

	url := strings.TrimSpace(rawURL)
	feed, err := e.store.GetFeed(ctx, url)
	if err != nil {
		return model.FeedData{}, err
	}

	release, ok := e.inflight.acquire(url)
	if !ok {
		return model.FeedData{}, fmt.Errorf("feed %q: %w", url, ErrRefreshInProgress)
	}
	defer release()

	_, articles, err := e.load(ctx, url)
	if err != nil {
		e.logger.Warn("refresh failed", "url", url, "kind", Kind(err), "err", err)
		e.health.fail(url, err.Error())
		return model.FeedData{}, err
	}

	if _, err := e.store.ReplaceFeedArticles(ctx, url, articles, time.Now()); err != nil {
		return model.FeedData{}, err
	}
	e.health.clear(url)
	e.metrics.ObserveStored("refresh", len(articles))
	e.logger.Info("feed refreshed", "url", url, "articles", len(articles))
	return model.FeedData{Title: feed.Title, Articles: articles}, nil
}

// load runs fetch, parse and normalize for url without touching the store.
func (e *Engine) load(ctx context.Context, url string) (string, []model.Article, error) {
	start := time.Now()
	doc, err := e.fetcher.Fetch(ctx, url)
	e.metrics.ObserveFetch(resultLabel(err), time.Since(start))
	if err != nil {
		return "", nil, err
	}

	parsed, err := e.parser.Parse(doc.Body)
	if err != nil {
		return "", nil, err
	}

	docURL := doc.FinalURL
	if docURL == "" {
		docURL = url
	}
	articles, stats := normalize.NormalizeAll(parsed.Entries, normalize.ResolveBase(docURL, parsed.BaseURL))
	if stats.Dropped() > 0 {
		e.logger.Debug("skipped feed entries",
			"url", url,
			"invalid", stats.Invalid,
			"duplicates", stats.Duplicates,
		)
	}
	e.metrics.AddSkipped("invalid", stats.Invalid)
	e.metrics.AddSkipped("duplicate", stats.Duplicates)
	return parsed.Title, articles, nil
}

// RemoveFeed deletes a feed and its cached articles. Viewed state is kept.
func (e *Engine) RemoveFeed(ctx context.Context, rawURL string) (err error) {
	defer func() { e.metrics.ObserveCommand("remove", resultLabel(err)) }()

	url := strings.TrimSpace(rawURL)
	release, ok := e.inflight.acquire(url)
	if !ok {
		return fmt.Errorf("feed %q: %w", url, ErrRefreshInProgress)
	}
	defer release()

	if err := e.store.DeleteFeed(ctx, url); err != nil {
		return err
	}
	e.health.clear(url)
	e.logger.Info("feed removed", "url", url)
	return nil
}

func (e *Engine) ListFeeds(ctx context.Context) ([]model.Feed, error) {
	feeds, err := e.store.ListFeeds(ctx)
	if err != nil {
		return nil, err
	}
	for i := range feeds {
		e.health.annotate(&feeds[i])
	}
	return feeds, nil
}

func (e *Engine) GetFeed(ctx context.Context, url string) (model.Feed, error) {
	feed, err := e.store.GetFeed(ctx, strings.TrimSpace(url))
	if err != nil {
		return model.Feed{}, err
	}
	e.health.annotate(&feed)
	return feed, nil
}

func (e *Engine) ListArticles(ctx context.Context, url string) ([]model.Article, error) {
	return e.store.ListArticles(ctx, strings.TrimSpace(url))
}

// MarkViewed is idempotent; the title of the first call is the one kept.
func (e *Engine) MarkViewed(ctx context.Context, link, title string) error {
	inserted, err := e.store.MarkViewed(ctx, link, title, time.Now())
	if err != nil {
		return err
	}
	if inserted {
		e.logger.Debug("article marked viewed", "link", link)
	}
	return nil
}

func (e *Engine) IsViewed(ctx context.Context, link string) (bool, error) {
	return e.store.IsViewed(ctx, link)
}

func (e *Engine) ListViewed(ctx context.Context) ([]model.ViewedArticle, error) {
	return e.store.ListViewed(ctx)
}

func (e *Engine) GetSettings(ctx context.Context) (model.Settings, error) {
	return e.store.GetSettings(ctx)
}

// UpdateSettings replaces all settings at once.
func (e *Engine) UpdateSettings(ctx context.Context, s model.Settings) error {
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q (expected Light|Dark)", ErrInvalidValue, s.Theme)
	}
	return e.store.PutSettings(ctx, s)
}
